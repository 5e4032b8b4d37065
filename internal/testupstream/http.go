package testupstream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/okian/healthfetch/internal/domain/endpoint"
)

// Upstream is safe for concurrent use.
type Upstream struct {
	creds       Credentials
	tokenStatus int

	mu        sync.Mutex
	issued    int
	valid     map[string]bool
	behaviors map[string]Behavior
	calls     map[string]int
	bodies    map[string][]byte
}

// New creates a fake with credentials "secret"/"client".
func New(opts ...Option) *Upstream {
	u := &Upstream{
		creds:     Credentials{SecretKey: "secret", ClientKey: "client"},
		valid:     map[string]bool{},
		behaviors: map[string]Behavior{},
		calls:     map[string]int{},
		bodies:    map[string][]byte{},
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Handler serves POST /generateToken and GET /{path} for every registered endpoint.
func (u *Upstream) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/generateToken", u.handleToken)
	r.Get("/{path}", u.handleData)
	return r
}

// SetBehavior installs or replaces an override for path.
func (u *Upstream) SetBehavior(path string, b Behavior) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.behaviors[path] = b
}

// SetTokenStatus changes how generateToken answers; 0 restores normal issuance.
func (u *Upstream) SetTokenStatus(status int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.tokenStatus = status
}

// RevokeTokens makes every issued token answer 401.
func (u *Upstream) RevokeTokens() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.valid = map[string]bool{}
}

// TokensIssued counts successful generateToken answers.
func (u *Upstream) TokensIssued() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.issued
}

// Calls counts requests received for path, including rejected ones.
func (u *Upstream) Calls(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls[path]
}

// LastBody returns the last request body received for path.
func (u *Upstream) LastBody(path string) []byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.bodies[path]
}

func (u *Upstream) handleToken(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls["generateToken"]++

	if u.tokenStatus != 0 {
		writeJSON(w, u.tokenStatus, map[string]string{"message": "token service unavailable"})
		return
	}
	var creds Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds != u.creds {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}
	u.issued++
	tok := fmt.Sprintf("token-%d", u.issued)
	u.valid[tok] = true
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

func (u *Upstream) handleData(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "path")
	var req struct {
		TDate    string `json:"tdate"`
		DEndDate string `json:"dEndDate"`
	}
	raw, _ := readAll(r)
	_ = json.Unmarshal(raw, &req)

	u.mu.Lock()
	u.calls[path]++
	u.bodies[path] = raw
	authorized := u.valid[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	b, override := u.behaviors[path]
	if override && b.Times > 0 {
		b.Times--
		if b.Times == 0 {
			delete(u.behaviors, path)
		} else {
			u.behaviors[path] = b
		}
	}
	u.mu.Unlock()

	if !authorized {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}

	d, known := lookupPath(path)
	if !known {
		http.NotFound(w, r)
		return
	}

	if override {
		if b.Delay > 0 {
			select {
			case <-time.After(b.Delay):
			case <-r.Context().Done():
				return
			}
		}
		if b.Status != 0 || b.Body != "" {
			status := b.Status
			if status == 0 {
				status = http.StatusOK
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(b.Body))
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(Payload(d, req.TDate))
}

func lookupPath(path string) (endpoint.Descriptor, bool) {
	for _, d := range endpoint.All() {
		if d.Path == path {
			return d, true
		}
	}
	return endpoint.Descriptor{}, false
}

func readAll(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer func() { _ = r.Body.Close() }()
	return io.ReadAll(r.Body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
