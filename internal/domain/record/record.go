package record

import (
	"encoding/json"
)

// Column names one field of the persisted daily record.
type Column string

// Bookkeeping columns.
const (
	DataDate  Column = "data_date"
	StateName Column = "state_name"
	FocusArea Column = "focus_area"
	Year      Column = "year"
	Month     Column = "month"
	StartDate Column = "start_date"
	EndDate   Column = "end_date"
	Source    Column = "source"
	FetchedAt Column = "fetched_at"
)

// Metric columns.
const (
	ABDMCardsLinked                Column = "number_of_abdm_cards_linked"
	ABDMCardsShared                Column = "number_of_abdm_cards_shared"
	ABDMCardsCreated               Column = "number_of_abdm_cards_created"
	ABDMHealthFacilityRegistry     Column = "number_of_abdm_health_facility_registry"
	ABDMProfessionalsRegistry      Column = "abdm_healthcare_professionals_registry"
	Doctors                        Column = "number_of_doctors"
	Nurses                         Column = "number_of_nurses"
	DataEntryOperators             Column = "number_of_data_entry_operators"
	Pharmacists                    Column = "number_of_pharmacists"
	LabAttendents                  Column = "number_of_lab_attendents"
	CommunityHealthOfficers        Column = "number_of_community_health_officers"
	AuxiliaryNurseMidwives         Column = "number_of_auxiliary_nurse_midwives"
	FacilitatorCount               Column = "facilitator_count"
	ASHACount                      Column = "asha_count"
	TotalPatientsVisit             Column = "number_of_total_patients_visit"
	OPDPatientVisit                Column = "number_of_patient_opd_patient_visit"
	MalePatientVisit               Column = "number_of_male_patient_visit"
	FemalePatientVisit             Column = "number_of_female_patient_visit"
	TransgenderPatientVisit        Column = "number_of_transgender_patient_visit"
	UniquePatientsTotal            Column = "unique_patients_total"
	IPDAdmission                   Column = "number_of_ipd_patient_admission"
	IPDDischarge                   Column = "number_of_ipd_patient_discharge"
	IPDSurgery                     Column = "number_of_ipd_patient_surgery"
	IPDTransfer                    Column = "number_of_ipd_patient_transfer"
	MedicoLegalCases               Column = "medico_legal_cases_count"
	AccidentEmergencyOPD           Column = "accident_emergency_opd_count"
	AccidentEmergencyObservation   Column = "accident_emergency_observation_count"
	TotalDistrict                  Column = "total_district"
	TotalBlocks                    Column = "total_blocks"
	TotalVillages                  Column = "total_villages"
	TotalPanchayats                Column = "total_panchayats"
	TotalHSC                       Column = "total_hsc"
	LiveHSC                        Column = "live_hsc"
	LiveFacilities                 Column = "live_facilities"
	ASHABeneficiaryCount           Column = "asha_beneficiary_count"
	ASHAEligibleCoupleCount        Column = "asha_eligible_couple_count"
	ASHAHouseholdCount             Column = "asha_household_count"
	ASHAPregnantWomenCount         Column = "asha_pregnant_women_count"
	DeliveryCount                  Column = "delivery_count"
	TotalChildCareCount            Column = "total_child_care_count"
	EAushadhiFacilityCount         Column = "eaushadhi_facility_count"
	PatientJourneyTimeMin          Column = "patient_journey_time_min"
	PatientWaitingTimeMin          Column = "patient_waiting_time_min"
	HSCPatientRegisteredTotal      Column = "hsc_patient_registered_total"
	HSCPatientTillNowTotal         Column = "hsc_patient_till_now_total"
	StateDashboardPatientCount     Column = "state_dashboard_patient_count"
	CitizenPortalLiveFacilityCount Column = "citizen_portal_live_facility_count"
	Wards                          Column = "number_of_wards"
	Beds                           Column = "number_of_beds"
)

// columns is the persisted column order.
var columns = [...]Column{ //nolint:gochecknoglobals // fixed schema
	DataDate, StateName, FocusArea, Year, Month,
	ABDMCardsLinked, ABDMCardsShared, ABDMCardsCreated, ABDMHealthFacilityRegistry, ABDMProfessionalsRegistry,
	Doctors, Nurses, DataEntryOperators, Pharmacists, LabAttendents,
	CommunityHealthOfficers, AuxiliaryNurseMidwives, FacilitatorCount, ASHACount,
	TotalPatientsVisit, OPDPatientVisit, MalePatientVisit, FemalePatientVisit, TransgenderPatientVisit,
	UniquePatientsTotal, IPDAdmission, IPDDischarge, IPDSurgery, IPDTransfer,
	MedicoLegalCases, AccidentEmergencyOPD, AccidentEmergencyObservation,
	TotalDistrict, TotalBlocks, TotalVillages, TotalPanchayats, TotalHSC, LiveHSC, LiveFacilities,
	ASHABeneficiaryCount, ASHAEligibleCoupleCount, ASHAHouseholdCount, ASHAPregnantWomenCount,
	DeliveryCount, TotalChildCareCount, EAushadhiFacilityCount,
	PatientJourneyTimeMin, PatientWaitingTimeMin,
	HSCPatientRegisteredTotal, HSCPatientTillNowTotal, StateDashboardPatientCount,
	StartDate, EndDate, Source, CitizenPortalLiveFacilityCount, Wards, Beds, FetchedAt,
}

var columnIndex = func() map[Column]int { //nolint:gochecknoglobals // derived from columns
	m := make(map[Column]int, len(columns))
	for i, c := range columns {
		m[c] = i
	}
	return m
}()

// ColumnCount is the number of persisted columns.
const ColumnCount = len(columns)

// Columns returns the persisted column order.
func Columns() []Column {
	out := make([]Column, len(columns))
	copy(out, columns[:])
	return out
}

// ColumnNames returns Columns as plain strings, for SQL builders.
func ColumnNames() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = string(c)
	}
	return out
}

// Known reports whether c is part of the schema.
func Known(c Column) bool {
	_, ok := columnIndex[c]
	return ok
}

// DailyRecord holds one Value per column. The zero value has every field Unavailable.
type DailyRecord struct {
	values [len(columns)]Value
}

// New returns a record with every field Unavailable.
func New() DailyRecord { return DailyRecord{} }

// Set stores v in column c and reports whether c is known.
func (r *DailyRecord) Set(c Column, v Value) bool {
	i, ok := columnIndex[c]
	if !ok {
		return false
	}
	r.values[i] = v
	return true
}

// Get returns the value of column c, Unavailable for unknown columns.
func (r DailyRecord) Get(c Column) Value {
	i, ok := columnIndex[c]
	if !ok {
		return Unavailable()
	}
	return r.values[i]
}

// DataDate returns the record's date key.
func (r DailyRecord) DataDate() string {
	s, _ := r.Get(DataDate).Text()
	return s
}

// Sanitized returns a copy with Sanitize applied to every column.
func (r DailyRecord) Sanitized() DailyRecord {
	out := r
	for i := range out.values {
		out.values[i] = Sanitize(out.values[i])
	}
	return out
}

// Row returns the stored form of every column in column order.
func (r DailyRecord) Row() []string {
	out := make([]string, len(r.values))
	for i, v := range r.values {
		out[i] = v.String()
	}
	return out
}

// Map returns column name to stored form.
func (r DailyRecord) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for i, v := range r.values {
		out[string(columns[i])] = v.String()
	}
	return out
}

// MarshalJSON writes the record as a flat object.
func (r DailyRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}
