package layout

// MIS returns the registry of the institutional reporting (MIS) feed record
// types. SL and SY run in Relaxed mode: their extracts routinely omit the
// trailing optional fields.
func MIS() *Registry {
	r, err := NewRegistry(misLayouts...)
	if err != nil {
		panic(err)
	}
	return r
}

var misLayouts = []Layout{
	{
		Code:   "AA",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB00_STUDENT_ID", Start: 8, End: 17},
			{Name: "AA01_ASSESSMENT_DATE", Start: 17, End: 23},
			{Name: "AA02_ASSESSMENT_RESULT", Start: 23, End: 25},
		},
	},
	{
		Code:   "CB",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "CB00_CONTROL_NUMBER", Start: 8, End: 20},
			{Name: "CB01_COURSE_DEPT_NUMBER", Start: 20, End: 32},
			{Name: "CB02_COURSE_TITLE", Start: 32, End: 100},
			{Name: "CB03_COURSE_TOP_CODE", Start: 100, End: 106},
			{Name: "CB04_COURSE_CREDIT_STATUS", Start: 106, End: 107},
			{Name: "CB05_COURSE_TRANSFER_STATUS", Start: 107, End: 108},
			{Name: "CB06_COURSE_UNITS_MAX", Start: 108, End: 112},
			{Name: "CB07_COURSE_UNITS_MIN", Start: 112, End: 116},
			{Name: "CB08_BASIC_SKILLS_STATUS", Start: 116, End: 117},
			{Name: "CB09_SAM_PRIORITY_CODE", Start: 117, End: 118},
			{Name: "CB10_COOP_ED_STATUS", Start: 118, End: 119},
			{Name: "CB11_CLASSIFICATION_CODE", Start: 119, End: 120},
			{Name: "CB12_COURSE_REPEATABILITY_DELETED", Start: 120, End: 121},
			{Name: "CB13_SPECIAL_CLASS_STATUS", Start: 121, End: 122},
			{Name: "CB14_CAN_CODE", Start: 122, End: 128},
			{Name: "CB15_CAN_SEQ_CODE", Start: 128, End: 136},
			{Name: "CB16_SAME_AS_DEPT_NUM1_DELETED", Start: 136, End: 148},
			{Name: "CB17_SAME_AS_DEPT_NUM2_DELETED", Start: 148, End: 160},
			{Name: "CB18_SAME_AS_DEPT_NUM3_DELETED", Start: 160, End: 172},
			{Name: "CB19_CROSSWALK_DEPT_NAME", Start: 172, End: 179},
			{Name: "CB20_CROSSWALK_CRS_NUMBER", Start: 179, End: 188},
			{Name: "CB21_PRIOR_TO_COLLEGE_LEVEL", Start: 188, End: 189},
			{Name: "CB22_NONCREDIT_CATEGORY", Start: 189, End: 190},
			{Name: "CB23_FUNDING_AGENCY_CATEGORY", Start: 190, End: 191},
			{Name: "CB24_PROGRAM_STATUS", Start: 191, End: 192},
			{Name: "CB25_GEN_ED_STATUS", Start: 192, End: 193},
			{Name: "CB26_SUPPORT_COURSE_STATUS", Start: 193, End: 194},
			{Name: "CB27_UPPER_DIVISION_STATUS", Start: 194, End: 195},
			{Name: "FILLER", Start: 195, End: 220},
		},
	},
	{
		Code:   "CC",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "CC01_CALENDAR_DAY_ID", Start: 8, End: 11},
			{Name: "CC02_CALENDAR_DAY_TERM", Start: 11, End: 12},
			{Name: "CC03_OVERLAPPING_TERM", Start: 12, End: 13},
			{Name: "CC04_INSTRUCTION_STATUS", Start: 13, End: 14},
			{Name: "CC05_FLEX_STATUS", Start: 14, End: 15},
			{Name: "CC06_CENSUS_STATUS", Start: 15, End: 16},
			{Name: "CC07_HOLIDAY_STATUS", Start: 16, End: 17},
			{Name: "CC08_EXAM_STATUS", Start: 17, End: 18},
			{Name: "FILLER", Start: 18, End: 20},
		},
	},
	{
		Code:   "CW",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB00_STUDENT_ID", Start: 8, End: 17},
			{Name: "SC12_WORK_ACTIVITY_STATUS", Start: 17, End: 18},
			{Name: "SC13_WORK_ACTIVITY_AREA_TOP_CODE", Start: 18, End: 24},
			{Name: "SC14_WORK_ACTIVITY_BEGIN_DATE", Start: 24, End: 32},
			{Name: "SC15_WORK_ACTIVITY_END_DATE", Start: 32, End: 40},
			{Name: "SC16_AVERAGE_HOURS_WORKED_PER_WEEK", Start: 40, End: 42},
			{Name: "SC17_HIGHEST_HOURLY_WAGE_EARNED", Start: 42, End: 46},
			{Name: "FILLER", Start: 46, End: 80},
		},
	},
	{
		Code:   "EB",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "EB00_EMPLOYEE_ID", Start: 8, End: 17},
			{Name: "EB01_ID_STATUS", Start: 17, End: 18},
			{Name: "EB02_BIRTH_DATE", Start: 18, End: 26},
			{Name: "EB03_GENDER", Start: 26, End: 27},
			{Name: "EB04_FILLER", Start: 27, End: 29},
			{Name: "EB05_CITIZENSHIP", Start: 29, End: 30},
			{Name: "EB06_DISABILITY_STATUS", Start: 30, End: 31},
			{Name: "EB07_EEO6_ACTIVITY", Start: 31, End: 32},
			{Name: "EB08_EMPLOYMENT_CLASS", Start: 32, End: 33},
			{Name: "EB09_EMPLOYMENT_STATUS", Start: 33, End: 34},
			{Name: "EB10_FILLER", Start: 34, End: 40},
			{Name: "EB11_CONTRACT_DURATION", Start: 40, End: 41},
			{Name: "EB12_ANNUAL_SALARY", Start: 41, End: 47},
			{Name: "EB13_ADDITIONAL_COMPENSATION", Start: 47, End: 53},
			{Name: "EB14_MULTI_ETHNICITY", Start: 53, End: 74},
			{Name: "FILLER", Start: 74, End: 80},
		},
	},
	{
		Code:   "EJ",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "EB00_EMPLOYEE_ID", Start: 8, End: 17},
			{Name: "EJ01_ASSIGNMENT_TYPE", Start: 17, End: 19},
			{Name: "EJ02_LEAVE_STATUS", Start: 19, End: 20},
			{Name: "EJ03_ACCOUNT_CODE", Start: 20, End: 26},
			{Name: "EJ04_WEEKLY_HOURS", Start: 26, End: 29},
			{Name: "EJ05_HOURLY_RATE", Start: 29, End: 34},
			{Name: "EJ06_FILLER", Start: 34, End: 38},
			{Name: "EJ07_FILLER", Start: 38, End: 44},
			{Name: "EJ08_FTE", Start: 44, End: 49},
			{Name: "FILLER", Start: 49, End: 80},
		},
	},
	{
		Code:   "FA",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "GI03_TERM_RECEIVED_ID", Start: 8, End: 11},
			{Name: "SB00_STUDENT_ID", Start: 11, End: 20},
			{Name: "SF21_AWARD_TYPE", Start: 20, End: 22},
			{Name: "SF22_AMOUNT_RECEIVED", Start: 22, End: 27},
			{Name: "FILLER", Start: 27, End: 50},
		},
	},
	{
		Code:   "SA",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB02_STUDENT_NAME_PARTIAL", Start: 8, End: 11},
			{Name: "SB00_STUDENT_ID", Start: 11, End: 20},
			{Name: "SA01_STUDENT_ASSESSMENT_INSTRUMENT", Start: 20, End: 24},
			{Name: "SA03_STUDENT_ASSESSMENT_ACCOMMODATION", Start: 24, End: 28},
			{Name: "SA04_STUDENT_ASSESSMENT_PURPOSE", Start: 28, End: 30},
			{Name: "SA05_STUDENT_ASSESSMENT_DATE", Start: 30, End: 36},
			{Name: "FILLER", Start: 36, End: 40},
		},
	},
	{
		Code:   "SB",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB02_FILLER", Start: 8, End: 11},
			{Name: "SB00_STUDENT_ID", Start: 11, End: 20},
			{Name: "SB01_ID_STATUS", Start: 20, End: 21},
			{Name: "SB03_BIRTH_DATE", Start: 21, End: 29},
			{Name: "SB04_GENDER", Start: 29, End: 30},
			{Name: "SB05_FILLER", Start: 30, End: 32},
			{Name: "SB06_CITIZENSHIP", Start: 32, End: 33},
			{Name: "SB07_FILLER", Start: 33, End: 34},
			{Name: "SB08_ZIP_CODE", Start: 34, End: 43},
			{Name: "SB09_RESIDENCE_CODE", Start: 43, End: 48},
			{Name: "SB10_FILLER", Start: 48, End: 49},
			{Name: "SB11_EDUCATION_STATUS", Start: 49, End: 54},
			{Name: "SB12_HS_LAST_ATTENDED", Start: 54, End: 60},
			{Name: "SB13_FILLER", Start: 60, End: 66},
			{Name: "SB14_EDUCATIONAL_GOAL", Start: 66, End: 67},
			{Name: "SB15_ENROLLMENT_STATUS", Start: 67, End: 68},
			{Name: "SB16_UNITS_EARNED_LOCAL", Start: 68, End: 74},
			{Name: "SB17_UNITS_EARNED_TRANSFER", Start: 74, End: 80},
			{Name: "SB18_UNITS_ATTEMPTED_LOCAL", Start: 80, End: 86},
			{Name: "SB19_UNITS_ATTEMPTED_TRANSFER", Start: 86, End: 92},
			{Name: "SB20_TOTAL_GRADE_POINTS_LOCAL", Start: 92, End: 98},
			{Name: "SB21_TOTAL_GRADE_POINTS_TRANSFERRED", Start: 98, End: 104},
			{Name: "SB22_ACADEMIC_STANDING", Start: 104, End: 105},
			{Name: "SB23_APPRENTICESHIP_STATUS", Start: 105, End: 106},
			{Name: "SB24_TRANSFER_CENTER_STATUS", Start: 106, End: 107},
			{Name: "SB25_FILLER", Start: 107, End: 108},
			{Name: "SB26_WIA_STATUS", Start: 108, End: 109},
			{Name: "SB27_FILLER", Start: 109, End: 110},
			{Name: "SB28_FIRST_NAME_PARTIAL", Start: 110, End: 113},
			{Name: "SB29_MULTI_ETHNICITY", Start: 113, End: 134},
			{Name: "SB30_BASIC_SKILLS_WAIVER_STATUS", Start: 134, End: 135},
			{Name: "SB31_FIRST_NAME", Start: 135, End: 165},
			{Name: "SB32_LAST_NAME", Start: 165, End: 205},
			{Name: "SB33_PARENT_GUARDIAN_EDU_LEVEL", Start: 205, End: 207},
			{Name: "SB34_CCC_ID", Start: 207, End: 215},
			{Name: "SB35_SS_ID", Start: 215, End: 225},
			{Name: "SB36_TRANSGENDER", Start: 225, End: 226},
			{Name: "SB37_SEXUAL_ORIENTATION", Start: 226, End: 227},
			{Name: "SB38_EXPANDED_ETHNICITY", Start: 227, End: 421},
			{Name: "SB39_DEPENDENTS", Start: 421, End: 423},
			{Name: "FILLER", Start: 423, End: 430},
		},
	},
	{
		Code:   "SC",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB00_STUDENT_ID", Start: 8, End: 17},
			{Name: "SC01_CALWORKS_ELIGIBILITY_STATUS", Start: 17, End: 18},
			{Name: "SC02_CASE_MANAGEMENT_SERVICES", Start: 18, End: 19},
			{Name: "SC03_CALWORKS_STUDENT_COUNSELING", Start: 19, End: 20},
			{Name: "SC04_REFERAL_TO_OTHER_SERVICES", Start: 20, End: 21},
			{Name: "SC05_OTHER_DIRECT_SUPPORT_SERVICES", Start: 21, End: 26},
			{Name: "SC06_ON_CAMPUS_CHILD_CARE_HOURS", Start: 26, End: 30},
			{Name: "SC07_OFF_CAMPUS_CHILD_CARE_HOURS", Start: 30, End: 34},
			{Name: "SC08_DEPENDENTS_RECEIVING_CHILD_CARE", Start: 34, End: 36},
			{Name: "SC09_TOTAL_NUMBER_OF_DEPENDENTS", Start: 36, End: 38},
			{Name: "SC10_STUDENT_FAMILY_STATUS", Start: 38, End: 39},
			{Name: "SC11_EMPLOYMENT_ASSISTANCE_SERVICES", Start: 39, End: 45},
			{Name: "SC18_ELIGIBILITY_TIME_LIMIT_STATUS", Start: 45, End: 46},
			{Name: "FILLER", Start: 46, End: 80},
		},
	},
	{
		Code:   "SD",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB02_STUDENT_NAME_PARTIAL", Start: 8, End: 11},
			{Name: "SB00_STUDENT_ID", Start: 11, End: 20},
			{Name: "SD01_PRIMARY_DISABILITY", Start: 20, End: 21},
			{Name: "SD02_FILLER", Start: 21, End: 24},
			{Name: "SD03_FILLER", Start: 24, End: 25},
			{Name: "SD04_FILLER", Start: 25, End: 28},
			{Name: "SD05_DISABILITY_DEPT_REHAB", Start: 28, End: 29},
			{Name: "SD06_ASL_INTERPRET_CAPTION", Start: 29, End: 30},
			{Name: "FILLER", Start: 30, End: 40},
		},
	},
	{
		Code:   "SE",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB02_STUDENT_NAME_PARTIAL", Start: 8, End: 11},
			{Name: "SB00_STUDENT_ID", Start: 11, End: 20},
			{Name: "SE01_EOPS_ELIGIBILITY_FACTOR", Start: 20, End: 21},
			{Name: "SE02_EOPS_TERM_OF_ACCEPTANCE", Start: 21, End: 24},
			{Name: "SE03_END_OF_TERM_EOPS_STATUS", Start: 24, End: 25},
			{Name: "SE04_EOPS_UNITS_PLANNED", Start: 25, End: 29},
			{Name: "SE05_EOPS_CARE_STATUS", Start: 29, End: 30},
			{Name: "SE06_CARE_TERM_OF_ACCEPTANCE", Start: 30, End: 33},
			{Name: "SE07_CARE_MARITAL_STATUS", Start: 33, End: 34},
			{Name: "SE08_CARE_NUM_DEPENDENTS", Start: 34, End: 35},
			{Name: "SE09_CARE_TANF_DURATION", Start: 35, End: 36},
			{Name: "SE10_EOPS_CARE_WITHDRAWAL_REASON", Start: 36, End: 37},
			{Name: "FILLER", Start: 37, End: 40},
		},
	},
	{
		Code:   "SF",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB02_STUDENT_NAME_PARTIAL", Start: 8, End: 11},
			{Name: "SB00_STUDENT_ID", Start: 11, End: 20},
			{Name: "SF01_APPLICANT_STATUS", Start: 20, End: 21},
			{Name: "SF03_BUDGET_CATEGORY", Start: 21, End: 22},
			{Name: "SF04_TOTAL_BUDGET_AMOUNT", Start: 22, End: 27},
			{Name: "SF05_DEPENDENCY_STATUS", Start: 27, End: 28},
			{Name: "SF06_HOUSEHOLD_SIZE", Start: 28, End: 30},
			{Name: "SF07_FAMILY_STATUS", Start: 30, End: 32},
			{Name: "SF08_INCOME_PARENT", Start: 32, End: 39},
			{Name: "SF09_INCOME_STUDENT", Start: 39, End: 46},
			{Name: "SF10_UNTAXED_INC_PARENT", Start: 46, End: 54},
			{Name: "SF11_UNTAXED_INC_STUDENT", Start: 54, End: 62},
			{Name: "SF17_EXPECTED_FAMILY_CONTRIBUTION", Start: 62, End: 68},
			{Name: "FILLER", Start: 68, End: 80},
		},
	},
	{
		Code:   "SG",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB00_STUDENT_ID", Start: 8, End: 17},
			{Name: "SG01_STUDENT_MILITARY_STATUS", Start: 17, End: 21},
			{Name: "SG02_STUDENT_MILITARY_DEPENDENT_STATUS", Start: 21, End: 25},
			{Name: "SG03_STUDENT_FOSTER_YOUTH_STATUS", Start: 25, End: 26},
			{Name: "SG04_STUDENT_INCARCERATED_STATUS", Start: 26, End: 27},
			{Name: "SG05_STUDENT_MESA_ASEM_STATUS", Start: 27, End: 28},
			{Name: "SG06_STUDENT_PUENTE_STATUS", Start: 28, End: 29},
			{Name: "SG07_STUDENT_MCHS_ECHS_STATUS", Start: 29, End: 30},
			{Name: "SG08_STUDENT_UMOJA_STATUS", Start: 30, End: 31},
			{Name: "SG09_FILLER", Start: 31, End: 33},
			{Name: "SG10_STUDENT_CAA_STATUS", Start: 33, End: 34},
			{Name: "SG11_STUDENT_CAFYES_STATUS", Start: 34, End: 35},
			{Name: "SG12_STUDENT_BACCALAUREATE_PROGRAM", Start: 35, End: 40},
			{Name: "SG13_STUDENT_CCAP_STATUS", Start: 40, End: 41},
			{Name: "SG14_STUDENT_ECONOMICALLY_DISADV_STATUS", Start: 41, End: 43},
			{Name: "SG15_STUDENT_EX_OFFENDER_STATUS", Start: 43, End: 44},
			{Name: "SG16_STUDENT_HOMELESS_STATUS", Start: 44, End: 45},
			{Name: "SG17_STUDENT_LONGTERM_UNEMPLOY_STATUS", Start: 45, End: 46},
			{Name: "SG18_STUDENT_CULTURAL_BARRIER_STATUS", Start: 46, End: 47},
			{Name: "SG19_STUDENT_SEASONAL_FARM_WORK_STATUS", Start: 47, End: 48},
			{Name: "SG20_STUDENT_LITERACY_STATUS", Start: 48, End: 49},
			{Name: "SG21_STUDENT_WORK_BASED_LEARNING_STATUS", Start: 49, End: 50},
			{Name: "SG22_STUDENT_A2MEND_STATUS", Start: 50, End: 51},
			{Name: "SG23_STUDENT_BASIC_NEEDS", Start: 51, End: 58},
			{Name: "SG24_STUDENT_YOUTH_JUSTICE_STATUS", Start: 58, End: 59},
			{Name: "SG25_STUDENT_CAMPUS_HOUSING_STATUS", Start: 59, End: 60},
			{Name: "SG26_STUDENT_DUAL_ADMISSION_STATUS", Start: 60, End: 62},
			{Name: "SG27_STUDENT_HOMELESS_HOUSING_INSECURITY", Start: 62, End: 64},
			{Name: "SG28_STUDENT_ATHLETE", Start: 64, End: 68},
			{Name: "SG29_STUDENT_RISING_SCHOLARS_NETWORK", Start: 68, End: 69},
			{Name: "FILLER", Start: 69, End: 70},
		},
	},
	{
		Code:   "SL",
		Mode:   Relaxed,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB00_STUDENT_ID", Start: 8, End: 17},
			{Name: "SL01_PLACEMENT_DATE", Start: 17, End: 23},
			{Name: "SL02_PLACEMENT_TYPE", Start: 23, End: 24},
			{Name: "SL03_PLACEMENT_SOURCE_HIGH_SCHOOL", Start: 24, End: 25},
			{Name: "SL04_PLACEMENT_SOURCE_GUIDED_SELF", Start: 25, End: 26},
			{Name: "SL05_PLACEMENT_SOURCE_TEST", Start: 26, End: 27},
			{Name: "SL06_PLACEMENT_LEVEL", Start: 27, End: 28},
		},
	},
	{
		Code:   "SM",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB02_STUDENT_NAME_PARTIAL", Start: 8, End: 11},
			{Name: "SB00_STUDENT_ID", Start: 11, End: 20},
			{Name: "SM01_MATRICULATION_GOALS", Start: 20, End: 24},
			{Name: "SM02_MATRICULATION_MAJOR", Start: 24, End: 30},
			{Name: "SM03_SPECIAL_SERVICES_NEEDS", Start: 30, End: 44},
			{Name: "SM04_ORIENTATION_EXEMPT_STATUS", Start: 44, End: 48},
			{Name: "SM05_ASSESSMENT_EXEMPT_STATUS", Start: 48, End: 52},
			{Name: "SM06_COUNSELING_EXEMPT_STATUS", Start: 52, End: 56},
			{Name: "SM07_ORIENTATION_SERVICES", Start: 56, End: 57},
			{Name: "SM08_ASSESSMENT_PLACEMENT", Start: 57, End: 58},
			{Name: "SM09_OTHER_ASSESSMENT_SERVICES", Start: 58, End: 61},
			{Name: "SM12_COUNSELING_SERVICES", Start: 61, End: 62},
			{Name: "SM13_ACADEMIC_FOLLOWUP_SERVICES", Start: 62, End: 63},
			{Name: "FILLER", Start: 63, End: 80},
		},
	},
	{
		Code:   "SP",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB02_STUDENT_NAME_PARTIAL", Start: 8, End: 11},
			{Name: "SB00_STUDENT_ID", Start: 11, End: 20},
			{Name: "SP01_PROGRAM_TOP_CODE", Start: 20, End: 26},
			{Name: "SP02_PROGRAM_AWARD", Start: 26, End: 27},
			{Name: "SP03_AWARD_EARNED_DATE", Start: 27, End: 33},
			{Name: "GI92_RECORD_NUMBER_ID", Start: 33, End: 34},
			{Name: "SP04_PROGRAM_CONTROL_NUMBER", Start: 34, End: 39},
			{Name: "FILLER", Start: 39, End: 40},
		},
	},
	{
		Code:   "SS",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB02_STUDENT_NAME_PARTIAL", Start: 8, End: 11},
			{Name: "SB00_STUDENT_ID", Start: 11, End: 20},
			{Name: "SS01_EDUCATIONAL_GOAL", Start: 20, End: 21},
			{Name: "SS02_COURSE_OF_STUDY_CREDIT", Start: 21, End: 27},
			{Name: "SS03_ORIENTATION_EXEMPT_CREDIT", Start: 27, End: 29},
			{Name: "SS04_ASSESSMENT_EXEMPT_CREDIT", Start: 29, End: 31},
			{Name: "SS05_ED_PLAN_EXEMPT_CREDIT", Start: 31, End: 33},
			{Name: "SS06_ORIENTATION_SERVICES_CREDIT", Start: 33, End: 34},
			{Name: "SS07_ASSESSMENT_PLACEMENT_CREDIT", Start: 34, End: 38},
			{Name: "SS08_COUNSELING_SERVICES_CREDIT", Start: 38, End: 39},
			{Name: "SS09_ED_PLAN_CREDIT", Start: 39, End: 40},
			{Name: "SS10_PROBATION_SERVICE_CREDIT", Start: 40, End: 41},
			{Name: "SS11_OTHER_SERVICES_CREDIT", Start: 41, End: 45},
			{Name: "SS12_COURSE_OF_STUDY_NONCREDIT", Start: 45, End: 51},
			{Name: "SS13_ORIENTATION_EXEMPT_NONCREDIT", Start: 51, End: 53},
			{Name: "SS14_ASSESSMENT_EXEMPT_NONCREDIT", Start: 53, End: 55},
			{Name: "SS15_ED_PLAN_EXEMPT_NONCREDIT", Start: 55, End: 57},
			{Name: "SS16_ORIENTATION_SERVICES_NONCREDIT", Start: 57, End: 58},
			{Name: "SS17_ASSESSMENT_PLACEMENT_NONCREDIT", Start: 58, End: 62},
			{Name: "SS18_COUNSELING_SERVICES_NONCREDIT", Start: 62, End: 63},
			{Name: "SS19_ED_PLAN_NONCREDIT", Start: 63, End: 64},
			{Name: "SS20_OTHER_SERVICES_NONCREDIT", Start: 64, End: 67},
			{Name: "FILLER", Start: 67, End: 80},
		},
	},
	{
		Code:   "SV",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB02_STUDENT_NAME_PARTIAL", Start: 8, End: 11},
			{Name: "SB00_STUDENT_ID", Start: 11, End: 20},
			{Name: "SV01_VOCATIONAL_PROGRAM_PLAN_STATUS", Start: 20, End: 21},
			{Name: "SV02_FILLER", Start: 21, End: 22},
			{Name: "SV03_ECONOMICALLY_DISADV_STATUS", Start: 22, End: 24},
			{Name: "SV04_SINGLE_PARENT_STATUS", Start: 24, End: 25},
			{Name: "SV05_DISPLACED_HOMEMAKER_STATUS", Start: 25, End: 26},
			{Name: "SV06_COOP_ED_TYPE", Start: 26, End: 27},
			{Name: "SV07_FILLER", Start: 27, End: 28},
			{Name: "SV08_TECH_PREP_STATUS", Start: 28, End: 29},
			{Name: "SV09_MIGRANT_WORKER_STATUS", Start: 29, End: 30},
			{Name: "SV10_WIA_VETERAN_STATUS", Start: 30, End: 31},
			{Name: "FILLER", Start: 31, End: 40},
		},
	},
	{
		Code:   "SX",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB02_STUDENT_NAME_PARTIAL", Start: 8, End: 11},
			{Name: "SB00_STUDENT_ID", Start: 11, End: 20},
			{Name: "CB01_COURSE_DEPT_NUMBER", Start: 20, End: 32},
			{Name: "XB00_SECTION_ID", Start: 32, End: 38},
			{Name: "SX01_ENROLLMENT_EFFECTIVE_DATE", Start: 38, End: 44},
			{Name: "SX02_ENROLLMENT_DROP_DATE", Start: 44, End: 50},
			{Name: "SX03_ENROLLMENT_UNITS_EARNED", Start: 50, End: 54},
			{Name: "SX04_ENROLLMENT_GRADE", Start: 54, End: 57},
			{Name: "SX05_POSITIVE_ATTENDANCE_HOURS", Start: 57, End: 62},
			{Name: "CB00_CONTROL_NUMBER", Start: 62, End: 74},
			{Name: "SX06_APPORTIONMENT_STATUS", Start: 74, End: 75},
			{Name: "SX07_CVC_INDICATOR", Start: 75, End: 76},
			{Name: "FILLER", Start: 76, End: 78},
		},
	},
	{
		Code:   "SY",
		Mode:   Relaxed,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "SB00_STUDENT_ID", Start: 8, End: 17},
			{Name: "CB00_COURSE_CONTROL_NUMBER", Start: 17, End: 29},
			{Name: "CB01_COURSE_DEPT_NUMBER", Start: 29, End: 41},
			{Name: "SY01_CREDIT_ASSESSMENT_DATE", Start: 41, End: 47},
			{Name: "SY02_CREDIT_ASSESSMENT_METHOD", Start: 47, End: 48},
			{Name: "SY03_CREDIT_UNITS_AWARDED", Start: 48, End: 52},
			{Name: "SY04_CREDIT_GRADE", Start: 52, End: 55},
		},
	},
	{
		Code:   "XB",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "GI02_FILLER", Start: 8, End: 11},
			{Name: "CB01_COURSE_DEPT_NUMBER", Start: 11, End: 23},
			{Name: "XB00_SECTION_ID", Start: 23, End: 29},
			{Name: "XB01_ACCOUNTING_METHOD", Start: 29, End: 30},
			{Name: "XB02_DATE_CENSUS_FIRST", Start: 30, End: 36},
			{Name: "XB03_FILLER", Start: 36, End: 42},
			{Name: "XB04_CONTRACT_ED_CODE", Start: 42, End: 43},
			{Name: "XB05_UNITS_MAXIMUM", Start: 43, End: 47},
			{Name: "XB06_UNITS_MINIMUM", Start: 47, End: 51},
			{Name: "XB07_FILLER", Start: 51, End: 52},
			{Name: "XB08_DSPS_SPECIAL_STATUS", Start: 52, End: 53},
			{Name: "XB09_WORK_BASED_LEARNING", Start: 53, End: 54},
			{Name: "XB10_CVC_STATUS", Start: 54, End: 55},
			{Name: "XB11_CONTACT_HOURS", Start: 55, End: 61},
			{Name: "CB00_CONTROL_NUMBER", Start: 61, End: 73},
			{Name: "XB12_MATERIAL_COST", Start: 73, End: 74},
			{Name: "FILLER", Start: 74, End: 80},
		},
	},
	{
		Code:   "XE",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "CB01_COURSE_DEPT_NUMBER", Start: 8, End: 20},
			{Name: "XB00_SECTION_ID", Start: 20, End: 26},
			{Name: "EB00_EMPLOYEE_ID", Start: 26, End: 35},
			{Name: "XF00_SESSION_ID", Start: 35, End: 37},
			{Name: "XE01_ASSIGNMENT_TYPE", Start: 37, End: 38},
			{Name: "XE02_ASSIGNMENT_PERCENT", Start: 38, End: 41},
			{Name: "XE03_ASSIGNMENT_FTE", Start: 41, End: 46},
			{Name: "XE04_ASSIGNMENT_HOURLY_RATE", Start: 46, End: 51},
			{Name: "CB00_CONTROL_NUMBER", Start: 51, End: 63},
			{Name: "FILLER", Start: 63, End: 80},
		},
	},
	{
		Code:   "XF",
		Mode:   Standard,
		Fields: []Field{
			{Name: "GI90_RECORD_CODE", Start: 0, End: 2},
			{Name: "GI01_DISTRICT_COLLEGE_ID", Start: 2, End: 5},
			{Name: "GI03_TERM_ID", Start: 5, End: 8},
			{Name: "CB01_COURSE_DEPT_NUMBER", Start: 8, End: 20},
			{Name: "XB00_SECTION_ID", Start: 20, End: 26},
			{Name: "XF00_SESSION_ID", Start: 26, End: 28},
			{Name: "XF01_INSTRUCTION_METHOD", Start: 28, End: 30},
			{Name: "XF02_DATE_BEGINNING", Start: 30, End: 36},
			{Name: "XF03_DATE_ENDING", Start: 36, End: 42},
			{Name: "XF04_DAYS_SCHEDULED", Start: 42, End: 51},
			{Name: "XF05_TIME_BEGIN", Start: 51, End: 55},
			{Name: "XF06_TIME_END", Start: 55, End: 59},
			{Name: "XF07_TOTAL_HOURS", Start: 59, End: 64},
			{Name: "CB00_CONTROL_NUMBER", Start: 64, End: 76},
			{Name: "FILLER", Start: 76, End: 80},
		},
	},
}
