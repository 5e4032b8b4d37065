package assemble

import "github.com/okian/healthfetch/internal/domain/record"

// Rule copies one key of one endpoint result into one record column.
type Rule struct {
	Target   record.Column
	Endpoint string
	Key      string
	// Fallback is tried when Key yields no data.
	Fallback string
	// SkipZero leaves the column Unavailable when the value is "0" or "0.0".
	SkipZero bool
}

// Rules is the extraction table applied by Assemble, in order.
// Upstream key spellings (male_patient_visist, pateint_visits, ...) are the API's own.
var Rules = []Rule{ //nolint:gochecknoglobals // static table
	{Target: record.Doctors, Endpoint: "staff_data", Key: "doctor"},
	{Target: record.Nurses, Endpoint: "staff_data", Key: "nurse"},
	{Target: record.DataEntryOperators, Endpoint: "staff_data", Key: "deo"},
	{Target: record.Pharmacists, Endpoint: "staff_data", Key: "pharmacist"},
	{Target: record.LabAttendents, Endpoint: "staff_data", Key: "lab_attendent"},
	{Target: record.CommunityHealthOfficers, Endpoint: "staff_data", Key: "cho_staff"},
	{Target: record.UniquePatientsTotal, Endpoint: "unique_patients", Key: "total_patient"},
	{Target: record.OPDPatientVisit, Endpoint: "opd_patients", Key: "patient_visit"},
	{Target: record.MalePatientVisit, Endpoint: "male_female_count", Key: "male_patient_visist"},
	{Target: record.FemalePatientVisit, Endpoint: "male_female_count", Key: "female_patient_visist"},
	{Target: record.TransgenderPatientVisit, Endpoint: "male_female_count", Key: "transgender_patient_visits"},
	{Target: record.PatientJourneyTimeMin, Endpoint: "patient_journey_time", Key: "journey_time_min"},
	{Target: record.PatientWaitingTimeMin, Endpoint: "patient_waiting_time", Key: "waiting_time_min"},
	{Target: record.EAushadhiFacilityCount, Endpoint: "eaushadhi_facility_count", Key: "count"},
	{Target: record.Wards, Endpoint: "ipd_facility_ward_bed", Key: "ward_count", Fallback: "wards"},
	{Target: record.Beds, Endpoint: "ipd_facility_ward_bed", Key: "bed_count", Fallback: "beds"},
	{Target: record.IPDAdmission, Endpoint: "ipd_patient_admit", Key: "admission"},
	{Target: record.IPDDischarge, Endpoint: "ipd_patient_admit", Key: "discharge"},
	{Target: record.IPDSurgery, Endpoint: "ipd_patient_admit", Key: "surgery"},
	{Target: record.IPDTransfer, Endpoint: "ipd_patient_admit", Key: "transfer"},
	{Target: record.MedicoLegalCases, Endpoint: "mlc_count", Key: "count"},
	{Target: record.AccidentEmergencyOPD, Endpoint: "ae_opd_consultation", Key: "count"},
	{Target: record.AccidentEmergencyObservation, Endpoint: "ae_observation_count", Key: "count"},
	{Target: record.ABDMCardsLinked, Endpoint: "abdm_data", Key: "Linked"},
	{Target: record.ABDMCardsShared, Endpoint: "abdm_data", Key: "Shared"},
	{Target: record.ABDMCardsCreated, Endpoint: "abdm_data", Key: "Created"},
	{Target: record.ABDMHealthFacilityRegistry, Endpoint: "abdm_data", Key: "HFR"},
	{Target: record.ABDMProfessionalsRegistry, Endpoint: "abdm_data", Key: "HPR"},
	{Target: record.TotalDistrict, Endpoint: "total_district", Key: "count"},
	{Target: record.TotalBlocks, Endpoint: "total_block", Key: "count"},
	{Target: record.LiveHSC, Endpoint: "hsc_count", Key: "live_hsc"},
	{Target: record.TotalHSC, Endpoint: "hsc_count", Key: "total_hsc"},
	{Target: record.HSCPatientRegisteredTotal, Endpoint: "hsc_patient_registered", Key: "total_patient"},
	{Target: record.AuxiliaryNurseMidwives, Endpoint: "cho_anm_count", Key: "anm", SkipZero: true},
	{Target: record.HSCPatientTillNowTotal, Endpoint: "hsc_patient_till_now", Key: "total_patient"},
	{Target: record.TotalPatientsVisit, Endpoint: "patient_visits_count_hsc", Key: "pateint_visits"},
	{Target: record.StateDashboardPatientCount, Endpoint: "state_dashboard_patient_count", Key: "patient_count"},
	{Target: record.CitizenPortalLiveFacilityCount, Endpoint: "citizen_portal_facility_count", Key: "Total_Live_Facilities"},
	{Target: record.LiveFacilities, Endpoint: "citizen_portal_facility_count", Key: "Total_Live_Facilities"},
	{Target: record.FacilitatorCount, Endpoint: "facilitator_asha_count", Key: "facilitator_count"},
	{Target: record.ASHACount, Endpoint: "facilitator_asha_count", Key: "asha_count"},
	{Target: record.TotalVillages, Endpoint: "dist_block_village_panch_hsc", Key: "village_counts"},
	{Target: record.TotalPanchayats, Endpoint: "dist_block_village_panch_hsc", Key: "panchayat_counts"},
	{Target: record.ASHAHouseholdCount, Endpoint: "asha_household", Key: "household_count"},
	{Target: record.ASHABeneficiaryCount, Endpoint: "asha_beneficiary", Key: "beneficiary_count"},
	{Target: record.ASHAEligibleCoupleCount, Endpoint: "asha_eligible_couple", Key: "ec_count"},
	{Target: record.ASHAPregnantWomenCount, Endpoint: "asha_pregnant_women", Key: "pw_count"},
	{Target: record.TotalChildCareCount, Endpoint: "total_child_care", Key: "child_count"},
	{Target: record.DeliveryCount, Endpoint: "delivery_count", Key: "delivery_count"},
}

// extract resolves one rule against an endpoint result.
func (r Rule) extract(result map[string]any) record.Value {
	v := record.Sanitize(result[r.Key])
	if !v.IsPresent() && r.Fallback != "" {
		v = record.Sanitize(result[r.Fallback])
	}
	if r.SkipZero {
		if s, _ := v.Text(); s == "0" || s == "0.0" {
			return record.Unavailable()
		}
	}
	return v
}
