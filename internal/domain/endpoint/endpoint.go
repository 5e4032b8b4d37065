// Package endpoint holds the fixed registry of remote metric sources.
package endpoint

// Descriptor names one remote metric source and its path under the API base URL.
type Descriptor struct {
	Name        string `json:"name"`
	Path        string `json:"endpoint"`
	Description string `json:"desc"`
}

// registry is ordered; the order drives endpoint_start indexes.
var registry = [...]Descriptor{ //nolint:gochecknoglobals // immutable registry
	{Name: "staff_data", Path: "staff_data", Description: "Staff/HR Data"},
	{Name: "unique_patients", Path: "unique_patients", Description: "Unique Patients"},
	{Name: "opd_patients", Path: "opd_patients", Description: "OPD Patients"},
	{Name: "male_female_count", Path: "malefemaleCount", Description: "Gender-wise Count"},
	{Name: "patient_journey_time", Path: "patientJourneyTime", Description: "Journey Time"},
	{Name: "patient_waiting_time", Path: "patientWaitingTime", Description: "Waiting Time"},
	{Name: "eaushadhi_facility_count", Path: "eAushadhiFacilityCount", Description: "E-Aushadhi Facilities"},
	{Name: "ipd_facility_ward_bed", Path: "IPDFacilityWardBed", Description: "IPD Ward/Bed"},
	{Name: "ipd_patient_admit", Path: "IPDPatientAdmit", Description: "IPD Admissions"},
	{Name: "mlc_count", Path: "MLCCount", Description: "MLC Cases"},
	{Name: "ae_opd_consultation", Path: "getAEOPDConsultation", Description: "A&E OPD"},
	{Name: "ae_observation_count", Path: "getAEObservationCount", Description: "A&E Observation"},
	{Name: "abdm_data", Path: "getABDMData", Description: "ABDM Data"},
	{Name: "total_district", Path: "getTotalDistrict", Description: "Total Districts"},
	{Name: "total_live_district", Path: "getTotalLiveDistrict", Description: "Live Districts"},
	{Name: "total_block", Path: "getTotalBlock", Description: "Total Blocks"},
	{Name: "total_live_block", Path: "getTotalLiveBlock", Description: "Live Blocks"},
	{Name: "hsc_count", Path: "getHSCcount", Description: "HSC Count"},
	{Name: "hsc_patient_registered", Path: "getHSCPatientRegistered", Description: "HSC Patients Registered"},
	{Name: "cho_anm_count", Path: "getCHO_ANMCount", Description: "CHO/ANM Count"},
	{Name: "hsc_patient_till_now", Path: "getHSCPatientTillNow", Description: "HSC Patients Till Now"},
	{Name: "patient_visits_count_hsc", Path: "getPatientVisitsCountHSC", Description: "HSC Patient Visits"},
	{Name: "state_dashboard_patient_count", Path: "getStateDashboardPatientCount", Description: "State Dashboard"},
	{Name: "citizen_portal_facility_count", Path: "getCitizenPortalDistrictFacilityCount", Description: "Citizen Portal"},
	{Name: "patient_first_registration_opd", Path: "getPatientFirstRegistrationOPD", Description: "First Registration OPD"},
	{Name: "facilitator_asha_count", Path: "get_facilitator_and_asha_count", Description: "Facilitator/ASHA"},
	{Name: "bcm_dcm_count", Path: "get_bcm_and_dcm_count", Description: "BCM/DCM Count"},
	{Name: "dist_block_village_panch_hsc", Path: "get_dist_block_village_panch_hsc_count", Description: "Geographic Data"},
	{Name: "asha_household", Path: "getAshaHousehold", Description: "ASHA Household"},
	{Name: "asha_beneficiary", Path: "getAshaBeneficiary", Description: "ASHA Beneficiary"},
	{Name: "asha_eligible_couple", Path: "getAshaEligibleCouple", Description: "Eligible Couples"},
	{Name: "asha_pregnant_women", Path: "getAshaPregnant_Women", Description: "Pregnant Women"},
	{Name: "total_child_care", Path: "getTotalchildcare", Description: "Child Care"},
	{Name: "delivery_count", Path: "getDeliveryCount", Description: "Delivery Count"},
}

// Count is the number of registered endpoints.
const Count = len(registry)

// All returns a copy of the registry in its fixed order.
func All() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry[:])
	return out
}

// Lookup finds a descriptor by name.
func Lookup(name string) (Descriptor, bool) {
	for _, d := range registry {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}
