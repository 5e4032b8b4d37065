package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/healthfetch/internal/adapters/repository"
	"github.com/okian/healthfetch/internal/domain/record"
	logging "github.com/okian/healthfetch/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const table = "daily_health_test"

func recordFor(date string) record.DailyRecord {
	rec := record.New()
	rec.Set(record.DataDate, record.Present(date))
	rec.Set(record.Doctors, record.Present("12"))
	return rec
}

func openMemory(ctx context.Context) *repository.Guard {
	g, err := repository.Open(ctx, repository.DriverSQLite, ":memory:", table)
	convey.So(err, convey.ShouldBeNil)
	return g
}

func TestGuardSQLite(t *testing.T) {
	convey.Convey("Given an in-memory SQLite guard", t, func() {
		_ = logging.Init()
		ctx := context.Background()
		g := openMemory(ctx)
		defer func() { _ = g.Close(ctx) }()

		convey.Convey("When the schema is ensured twice", func() {
			created, err := g.CreateIfMissing(ctx)
			again, err2 := g.CreateIfMissing(ctx)
			exists, _ := g.TableExists(ctx)

			convey.So(err, convey.ShouldBeNil)
			convey.So(err2, convey.ShouldBeNil)
			convey.So(created, convey.ShouldBeTrue)
			convey.So(again, convey.ShouldBeFalse)
			convey.So(exists, convey.ShouldBeTrue)
		})

		convey.Convey("When a record is inserted", func() {
			convey.So(g.EnsureSchema(ctx), convey.ShouldBeNil)
			ok, err := g.Insert(ctx, recordFor("2024-01-02"))

			convey.Convey("Then it is stored once", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ok, convey.ShouldBeTrue)
				exists, _ := g.Exists(ctx, "2024-01-02")
				convey.So(exists, convey.ShouldBeTrue)
				n, _ := g.RecordCount(ctx)
				convey.So(n, convey.ShouldEqual, 1)
			})

			convey.Convey("Then a second insert for the same date writes nothing", func() {
				ok, err := g.Insert(ctx, recordFor("2024-01-02"))
				convey.So(err, convey.ShouldBeNil)
				convey.So(ok, convey.ShouldBeFalse)
				n, _ := g.RecordCount(ctx)
				convey.So(n, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When several dates are stored", func() {
			convey.So(g.EnsureSchema(ctx), convey.ShouldBeNil)
			for i := 1; i <= 12; i++ {
				_, err := g.Insert(ctx, recordFor(fmt.Sprintf("2024-01-%02d", i)))
				convey.So(err, convey.ShouldBeNil)
			}

			convey.Convey("Then recent dates are newest first and limited", func() {
				dates, err := g.RecentDates(ctx, 10)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(dates), convey.ShouldEqual, 10)
				convey.So(dates[0], convey.ShouldEqual, "2024-01-12")
				convey.So(dates[9], convey.ShouldEqual, "2024-01-03")
			})
		})

		convey.Convey("When the table was never created", func() {
			dates, err := g.RecentDates(ctx, 10)

			convey.So(errors.Is(err, repository.ErrQuery), convey.ShouldBeTrue)
			convey.So(dates, convey.ShouldBeNil)
		})

		convey.Convey("When the store holds no records", func() {
			convey.So(g.EnsureSchema(ctx), convey.ShouldBeNil)
			dates, err := g.RecentDates(ctx, 10)

			convey.So(err, convey.ShouldBeNil)
			convey.So(dates, convey.ShouldResemble, []string{})
		})
	})
}

func TestOpen(t *testing.T) {
	convey.Convey("Given store parameters", t, func() {
		_ = logging.Init()
		ctx := context.Background()

		convey.Convey("An unknown driver is rejected", func() {
			_, err := repository.Open(ctx, "mysql", "dsn", table)
			convey.So(errors.Is(err, repository.ErrUnknownDriver), convey.ShouldBeTrue)
		})

		convey.Convey("A table name that is not an identifier is rejected", func() {
			_, err := repository.Open(ctx, repository.DriverSQLite, ":memory:", "x; DROP TABLE y")
			convey.So(errors.Is(err, repository.ErrInvalidTable), convey.ShouldBeTrue)
		})

		convey.Convey("An unreachable Postgres is a connect error", func() {
			_, err := repository.Open(ctx, repository.DriverPostgres, "postgres://u:p@127.0.0.1:1/db?connect_timeout=1", table)
			convey.So(errors.Is(err, repository.ErrConnect), convey.ShouldBeTrue)
		})
	})
}

// fakeBackend scripts backend answers for failure paths.
type fakeBackend struct {
	exists      bool
	existsErr   error
	createErr   error
	createMakes bool
	countByDate int
	countErr    error
	inserted    int64
	insertErr   error
	inserts     int
}

func (f *fakeBackend) TableExists(context.Context) (bool, error) { return f.exists, f.existsErr }

func (f *fakeBackend) CreateTable(context.Context) error {
	if f.createErr == nil && f.createMakes {
		f.exists = true
		f.existsErr = nil
	}
	return f.createErr
}

func (f *fakeBackend) CountByDate(context.Context, string) (int, error) { return f.countByDate, f.countErr }

func (f *fakeBackend) InsertIgnore(context.Context, []string, []string) (int64, error) {
	f.inserts++
	return f.inserted, f.insertErr
}

func (f *fakeBackend) Count(context.Context) (int, error) { return 0, nil }

func (f *fakeBackend) RecentDates(context.Context, int) ([]string, error) { return nil, nil }

func (f *fakeBackend) Close(context.Context) error { return nil }

func TestGuardFailures(t *testing.T) {
	convey.Convey("Given a guard over a scripted backend", t, func() {
		_ = logging.Init()
		ctx := context.Background()

		convey.Convey("When creation does not make the table appear", func() {
			g := repository.NewGuard(&fakeBackend{})

			convey.So(errors.Is(g.EnsureSchema(ctx), repository.ErrSchema), convey.ShouldBeTrue)
		})

		convey.Convey("When creation fails", func() {
			g := repository.NewGuard(&fakeBackend{createErr: errors.New("denied")})

			convey.So(errors.Is(g.EnsureSchema(ctx), repository.ErrSchema), convey.ShouldBeTrue)
		})

		convey.Convey("When the existence check fails but creation works", func() {
			g := repository.NewGuard(&fakeBackend{existsErr: errors.New("flaky"), createMakes: true})

			convey.So(g.EnsureSchema(ctx), convey.ShouldBeNil)
		})

		convey.Convey("When the date shows up before the insert", func() {
			b := &fakeBackend{countByDate: 1, inserted: 1}
			ok, err := repository.NewGuard(b).Insert(ctx, recordFor("2024-01-01"))

			convey.So(err, convey.ShouldBeNil)
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(b.inserts, convey.ShouldEqual, 0)
		})

		convey.Convey("When the re-check fails the insert still relies on the unique key", func() {
			b := &fakeBackend{countErr: errors.New("timeout"), inserted: 0}
			ok, err := repository.NewGuard(b).Insert(ctx, recordFor("2024-01-01"))

			convey.So(err, convey.ShouldBeNil)
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(b.inserts, convey.ShouldEqual, 1)
		})

		convey.Convey("When the insert itself fails", func() {
			b := &fakeBackend{insertErr: errors.New("disk full")}
			ok, err := repository.NewGuard(b).Insert(ctx, recordFor("2024-01-01"))

			convey.So(ok, convey.ShouldBeFalse)
			convey.So(errors.Is(err, repository.ErrInsert), convey.ShouldBeTrue)
		})
	})
}
