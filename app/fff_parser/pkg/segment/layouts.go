package segment

// 各段布局取自 Equifax 加拿大 FFF 定长格式。偏移相对于段代码首字符。
// 日期字段的年份字节位于月份之后，拼接时先年后月，得到 YYYYMM。

var addressLayout = Layout{
	text("street_number", 3, 13),
	text("street_name_direction_apartment", 14, 40),
	text("city", 80, 100),
	text("province", 101, 103),
	text("postal_code", 104, 110),
	date6("residence_since", 114, 118, 111, 113),
	text("indicator_code", 118, 119),
}

// TODO: city 长度上限 4 沿用现有规则，真实城市名大多更长，待与数据负责人确认
var addressValid = All(
	On("city", MaxLen(4)),
	On("province", Len(2)),
	On("postal_code", Len(6)),
	On("residence_since", Date6Digits),
)

var nameLayout = Layout{
	text("last_name", 3, 28),
	text("first_name", 29, 44),
	text("middle_name_initial", 45, 60),
	text("suffix", 61, 63),
	text("spouse_name", 80, 95),
	text("legal_name_change", 96, 97),
}

var nameValid = All(
	On("last_name", ValidName),
	On("first_name", ValidName),
	On("middle_name_initial", ValidName),
	On("spouse_name", ValidName),
	On("suffix", OneOf("SR", "JR", "1 ", "2 ", "3 ", "4 ", "XX", "  ", "")),
	On("legal_name_change", OneOf("L", " ")),
)

var deathLayout = Layout{
	date6("subject_death_date", 6, 10, 3, 5),
}

var employmentLayout = Layout{
	text("occupation", 3, 37),
	text("employer", 38, 72),
	text("city_of_employment", 80, 88),
	text("province_of_employment", 89, 91),
	date6("date_employed", 95, 99, 92, 94),
	date6("date_verified", 103, 107, 100, 102),
	text("verification_status", 108, 109),
	suffixed(amount("monthly_salary", 110, 118), "NV"),
	marker("monthly_salary_indicator", 110, 118, "NV"),
	date6("date_left", 122, 126, 119, 121),
}

var employmentValid = All(
	On("date_employed", Date6Digits),
	On("date_verified", Date6Digits),
	On("date_left", Date6Digits),
	On("city_of_employment", Alpha),
	On("province_of_employment", Alpha),
	On("monthly_salary", Required, Contains("$")),
)

var otherIncomeLayout = Layout{
	date6("date_reported", 6, 10, 3, 5),
	amount("income_amount", 11, 17),
	text("income_source", 18, 58),
	date6("date_verified", 62, 66, 59, 61),
	text("verification_status", 67, 68),
}

var bankruptcyLayout = Layout{
	text("foreign_bureau_code", 3, 4),
	date6("date_filed", 8, 12, 5, 7),
	text("name_court", 13, 33),
	text("court_number", 52, 62),
	text("type_bankruptcy", 63, 64),
	text("how_filed", 65, 66),
	text("deposition_codes", 67, 68),
	amount("amount_liability", 69, 75),
	amount("asset_amount", 80, 86),
	date6("date_settled", 90, 94, 87, 89),
	text("narrative_code_1", 95, 97),
	text("narrative_code_2", 98, 100),
	text("case_number", 101, 143),
}

var bankruptcyValid = All(
	On("how_filed", OneOf("S", "J", " ")),
	On("type_bankruptcy", OneOf("B", "I", " ")),
	On("case_number", FirstNotSpace),
	On("date_filed", Date6Digits),
	On("date_settled", Date6Digits),
	On("narrative_code_1", IndustryCode),
	On("narrative_code_2", IndustryCode),
)

var collectionLayout = Layout{
	text("foreign_bureau_code", 3, 4),
	date6("date_reported", 8, 12, 5, 7),
	text("name_member", 13, 33),
	text("member_number", 52, 62),
	amount("amount", 63, 69),
	amount("balance", 70, 76),
	text("type", 77, 78),
	text("narrative_code_1", 80, 82),
	text("narrative_code_2", 83, 85),
	text("industry_code", 86, 88),
	text("reason_code", 89, 90),
	date6("date_paid", 94, 98, 91, 93),
	date6("date_last_payment", 102, 106, 99, 101),
	text("creditors_account_number_and_name", 107, 157),
	text("ledger_number", 160, 177),
}

var collectionValid = All(
	On("type", OneOf("P", "U", " ")),
	On("date_reported", Date6Digits),
	On("date_paid", Date6Digits),
	On("date_last_payment", Date6Digits),
	On("member_number", MemberNumber),
	On("creditors_account_number_and_name", FirstNotSpace),
	On("narrative_code_1", IndustryCode),
	On("narrative_code_2", IndustryCode),
)

var securedLoanLayout = Layout{
	text("foreign_bureau_code", 3, 4),
	date6("date_filed", 8, 12, 5, 7),
	text("name_court", 13, 33),
	text("court_number", 52, 62),
	text("industry_code", 63, 65),
	date6("maturity_date", 69, 73, 66, 68),
	text("narrative_code_1", 73, 76),
	text("narrative_code_2", 77, 79),
	leftTrimmed(text("creditors_name_address_amount", 80, 140)),
}

var securedLoanValid = All(
	On("industry_code", IndustryCode),
	On("date_filed", Date6Digits),
	On("maturity_date", Date6Digits),
	On("narrative_code_1", IndustryCode),
	On("narrative_code_2", IndustryCode),
	On("creditors_name_address_amount", FirstDigit),
)

var legalItemLayout = Layout{
	text("foreign_bureau_code", 3, 4),
	date6("date_filed", 8, 12, 5, 7),
	text("name_court", 13, 33),
	text("court_number", 52, 62),
	amount("amount", 63, 69),
	text("type_code", 70, 71),
	date6("date_satisfied", 75, 79, 72, 74),
	text("status_code", 80, 81),
	text("date_verified", 82, 89),
	text("narrative_code_1", 90, 92),
	text("narrative_code_2", 93, 95),
	text("defendant", 96, 136),
	text("case_number", 137, 159),
	text("case_number_continued", 160, 180),
	text("plaintiff", 181, 221),
	text("lawyer_name_address", 240, 300),
}

// 部分来源只填类型码或状态码之一，两者任一合法即可
var legalItemValid = All(
	Any(
		On("type_code", OneOf("A", "J", "F")),
		On("status_code", OneOf("D", "S", "T")),
	),
	On("amount", NotContains(`\`)),
	On("name_court", StartsNonSpace),
	On("date_filed", Date6Digits),
	On("date_satisfied", Date6Digits),
	On("narrative_code_1", IndustryCode),
	On("narrative_code_2", IndustryCode),
)

var maritalItemLayout = Layout{
	text("foreign_bureau_code", 3, 4),
	date6("date_reported", 8, 12, 5, 7),
	text("name_court", 13, 33),
	text("telephone_area_code", 34, 37),
	text("telephone_number", 38, 46),
	text("extension", 47, 51),
	text("member_number", 52, 62),
	text("action_code", 63, 64),
	date6("date_verified", 68, 72, 65, 67),
	text("amount", 80, 122),
	text("additional_details", 160, 200),
}

var maritalItemValid = All(
	On("date_reported", Date6Digits),
	On("date_verified", Date6Digits),
	On("member_number", MemberNumber),
	On("action_code", OneOf("S", " ")),
)

var garnishmentLayout = Layout{
	text("foreign_bureau_code", 3, 4),
	date6("date_reported", 8, 12, 5, 7),
	text("name_court", 13, 33),
	text("court_number", 46, 56),
	amount("amount", 57, 63),
	date6("date_satisfied", 67, 71, 64, 66),
	date6("date_checked", 75, 79, 72, 74),
	text("narrative_code_1", 80, 82),
	text("narrative_code_2", 83, 85),
	text("case_number", 86, 128),
	text("plaintiff", 129, 159),
	text("plaintiff_continued", 160, 172),
	text("garnishee", 173, 213),
	text("defendant", 214, 280),
}

var garnishmentValid = All(
	On("date_reported", Date6Digits),
	On("date_checked", Date6Digits),
	On("date_satisfied", Date6Digits),
)

var tradeCheckLayout = Layout{
	text("foreign_bureau_code", 3, 4),
	text("account_designator_code", 5, 6),
	text("autodata_indicator", 6, 7),
	text("name_member", 8, 28),
	text("telephone_area_code", 29, 32),
	text("telephone_number", 33, 41),
	text("extension", 42, 46),
	text("member_number", 47, 57),
	date6("date_reported", 61, 65, 58, 60),
	date6("date_opened", 69, 73, 66, 68),
	amount("high_credit", 74, 79),
	amount("terms", 80, 84),
	amount("balance", 85, 90),
	amount("past_due", 91, 96),
	text("type_code", 97, 98),
	text("rate_code", 98, 99),
	integer("day_counter_30", 100, 102),
	integer("day_counter_60", 103, 105),
	integer("day_counter_90", 106, 108),
	integer("months_reviewed", 109, 111),
	date6("date_last_activity", 115, 119, 112, 114),
	text("account_number", 120, 135),
	float("previous_high_rate_1", 161, 162),
	date6("previous_high_date_1", 166, 170, 163, 165),
	float("previous_high_rate_2", 172, 173),
	date6("previous_high_date_2", 177, 181, 174, 176),
	float("previous_high_rate_3", 183, 184),
	date6("previous_high_date_3", 188, 192, 185, 187),
	text("narrative_code_1", 196, 198),
	text("narrative_code_2", 199, 201),
}

var tradeCheckValid = All(
	Any(
		On("autodata_indicator", OneOf("*")),
		On("account_designator_code", OneOf("I", "J", "U")),
	),
	On("date_reported", Date6Digits),
	On("date_opened", Date6Digits),
	On("date_last_activity", Date6Digits),
	On("previous_high_date_1", Date6Digits),
	On("previous_high_date_2", Date6Digits),
	On("previous_high_date_3", Date6Digits),
)

var chequingSavingLayout = Layout{
	text("foreign_bureau_code", 3, 4),
	date6("date_reported", 8, 12, 5, 7),
	text("name_member", 13, 33),
	text("telephone_area_code", 34, 37),
	text("telephone_number", 38, 46),
	text("extension", 47, 51),
	text("member_number", 52, 62),
	date6("date_opened", 66, 70, 63, 65),
	text("amount", 80, 95),
	text("type_account", 96, 97),
	text("narrative_code_1", 98, 100),
	text("status_code", 101, 102),
	text("nsf_information", 103, 118),
	text("account_number", 119, 134),
}

var chequingSavingValid = All(
	On("date_reported", Date6Digits),
	On("date_opened", Date6Digits),
	On("member_number", MemberNumber),
	On("type_account", CharIn("ABCDEFGHIJKLMNOPQSTUVWXY ")),
	On("status_code", CharIn("ABCDQTUXZ ")),
	On("narrative_code_1", IndustryCode),
)

var foreignBureauLayout = Layout{
	date8("date_inquiry", 3, 13),
	text("city_narrative", 14, 32),
	text("province_narrative", 33, 53),
}

var locateSpecialServiceLayout = Layout{
	text("date_reported", 3, 10),
	text("name_member", 11, 31),
	text("telephone_area_code", 32, 35),
	text("telephone_number", 36, 44),
	text("extension", 45, 49),
	text("member_number", 50, 60),
	text("type_code", 61, 62),
}

var locateSpecialServiceValid = All(
	On("date_reported", Date6Digits),
	On("member_number", MemberNumber),
)

var inquiryLayout = Layout{
	date8("date_inquiry", 3, 13),
	text("name_member", 14, 34),
	text("telephone_area_code", 35, 38),
	text("telephone_number", 39, 47),
	text("extension", 48, 52),
	text("member_number", 53, 63),
}

var consumerDeclarationLayout = Layout{
	date6("date_reported", 6, 10, 3, 5),
	date6("date_purged", 14, 18, 11, 13),
	text("declaration", 19, 79),
	text("declaration_continued_1", 80, 158),
	text("declaration_continued_2", 160, 238),
	text("declaration_continued_3", 240, 318),
	text("declaration_continued_4", 320, 398),
	text("declaration_continued_end", 400, 428),
}

var bureauScoreLayout = Layout{
	integer("product_score", 3, 8),
	text("first_reason_code", 9, 11),
	text("second_reason_code", 12, 14),
	text("third_reason_code", 15, 17),
	text("fourth_reason_code", 18, 20),
	text("reject_message_code", 21, 22),
	text("reserved", 26, 28),
	text("product_identifier", 77, 79),
}

// 以下为已停用的段，保留布局以便历史数据回放

var foreclosureLayout = Layout{
	text("foreign_bureau_code", 3, 4),
	date6("date_reported", 8, 12, 5, 7),
	date6("date_checked", 16, 20, 13, 15),
	text("narrative_code_1", 21, 23),
	text("narrative_code_2", 24, 26),
	text("member_number_or_member_narrative", 27, 67),
}

var nonResponsibilityLayout = Layout{
	text("foreign_bureau_code", 3, 4),
	date6("date_reported", 8, 12, 5, 7),
	text("person_filing", 13, 14),
	text("narrative_code_1", 15, 17),
	text("narrative_code_2", 18, 20),
}

var taxLienLayout = Layout{
	text("foreign_bureau_code", 3, 4),
	date6("date_filed", 8, 12, 5, 7),
	text("name_court", 13, 33),
	text("court_number", 46, 56),
	amount("amount", 57, 63),
	text("industry_code", 64, 66),
	date6("date_released", 70, 74, 67, 69),
	date6("date_verified", 83, 87, 80, 82),
	text("narrative_code_1", 88, 90),
	text("narrative_code_2", 91, 93),
	text("case_number", 94, 136),
}

var financialCounselorLayout = Layout{
	text("foreign_bureau_code", 3, 4),
	text("date_reported", 5, 12),
	text("member_number", 13, 23),
	amount("amount", 24, 30),
	text("date_checked", 31, 38),
	text("date_settled", 39, 46),
	text("narrative_code_1", 47, 49),
	text("narrative_code_2", 50, 52),
	text("status_code", 53, 54),
}

var nonmemberTradeCheckLayout = Layout{
	text("date_reported", 3, 10),
	text("type_code", 11, 12),
	text("rating_code_0_or_greater", 13, 14),
	text("rating_code_less_than_0", 15, 16),
	text("date_opened", 17, 24),
	text("narrative_code_1", 25, 27),
	text("narrative_code_2", 28, 30),
	text("customer_narrative", 31, 71),
	amount("high_credit_amount", 71, 78),
	amount("balance", 80, 86),
	amount("past_due_amount", 87, 93),
}

func dates(fields ...string) Predicate {
	ps := make([]Predicate, len(fields))
	for i, f := range fields {
		ps[i] = On(f, Date6Digits)
	}
	return All(ps...)
}

func registerDefaults(r *Registry) {
	r.Register("address", "1_2_3_address", false,
		Descriptor{Code: "CA", Description: "current address", Tag: Tag{LeadingSpace: true}, Layout: addressLayout, Validate: addressValid},
		Descriptor{Code: "FA", Description: "former address", Tag: Tag{LeadingSpace: true}, Layout: addressLayout, Validate: addressValid},
		Descriptor{Code: "F2", Description: "second former address", Tag: Tag{LeadingSpace: true}, Layout: addressLayout, Validate: addressValid},
	)
	r.Register("name", "4_5_name", false,
		Descriptor{Code: "AK", Description: "also known as", Tag: Tag{LeadingSpace: true}, Layout: nameLayout, Validate: nameValid},
		Descriptor{Code: "FN", Description: "former name", Layout: nameLayout, Validate: nameValid},
	)
	r.Register("death", "6_death", false,
		Descriptor{Code: "DT", Description: "death", Layout: deathLayout,
			Validate: On("subject_death_date", Date6Digits, Required)},
	)
	r.Register("employment", "7_8_9_employment", false,
		Descriptor{Code: "ES", Description: "current employment situation", Layout: employmentLayout, Validate: employmentValid},
		Descriptor{Code: "EF", Description: "former employment situation", Tag: Tag{LeadingSpace: true}, Layout: employmentLayout, Validate: employmentValid},
		Descriptor{Code: "E2", Description: "second former employment situation", Tag: Tag{LeadingSpace: true}, Layout: employmentLayout, Validate: employmentValid},
	)
	r.Register("other_income", "12_other_income", false,
		Descriptor{Code: "OI", Description: "other income", Tag: Tag{LeadingSpace: true}, Layout: otherIncomeLayout,
			Validate: dates("date_reported", "date_verified")},
	)
	r.Register("bankruptcy", "13_bankruptcy", false,
		Descriptor{Code: "BP", Description: "bankruptcy", Layout: bankruptcyLayout, Validate: bankruptcyValid},
	)
	r.Register("collection", "14_collection", false,
		Descriptor{Code: "CO", Description: "collection", Tag: Tag{LeadingSpace: true}, Layout: collectionLayout, Validate: collectionValid},
	)
	r.Register("secured_loan", "15_secured_loan", false,
		Descriptor{Code: "FM", Description: "secured loan", Layout: securedLoanLayout, Validate: securedLoanValid},
	)
	r.Register("legal_item", "16_legal_item", false,
		Descriptor{Code: "LI", Description: "legal item", Layout: legalItemLayout, Validate: legalItemValid},
	)
	r.Register("foreclosure", "17_foreclosure", true,
		Descriptor{Code: "FO", Description: "foreclosure", Tag: Tag{LeadingSpace: true}, Layout: foreclosureLayout,
			Validate: All(
				dates("date_reported", "date_checked"),
				On("narrative_code_1", IndustryCode),
				On("narrative_code_2", IndustryCode),
			)},
	)
	r.Register("non_responsibility", "18_non_responsibility", true,
		Descriptor{Code: "NR", Description: "non-responsibility", Tag: Tag{LeadingSpace: true}, Layout: nonResponsibilityLayout,
			Validate: All(
				On("date_reported", Date6Digits),
				On("person_filing", OneOf("S", "W", "B")),
				On("narrative_code_1", IndustryCode),
				On("narrative_code_2", IndustryCode),
			)},
	)
	r.Register("marital_item", "19_marital_item", false,
		Descriptor{Code: "MI", Description: "marital item", Tag: Tag{LeadingSpace: true}, Layout: maritalItemLayout, Validate: maritalItemValid},
	)
	r.Register("tax_lien", "20_tax_lien", true,
		Descriptor{Code: "TL", Description: "tax lien", Tag: Tag{LeadingSpace: true}, Layout: taxLienLayout,
			Validate: All(
				dates("date_filed", "date_verified", "date_released"),
				On("industry_code", IndustryCode),
				On("narrative_code_1", IndustryCode),
				On("narrative_code_2", IndustryCode),
			)},
	)
	r.Register("financial_counselor", "21_financial_counselor", true,
		Descriptor{Code: "FC", Description: "financial counselor", Tag: Tag{LeadingSpace: true}, Layout: financialCounselorLayout,
			Validate: All(
				dates("date_reported", "date_checked", "date_settled"),
				On("status_code", OneOf("S", "I", "V")),
				On("member_number", MemberNumber),
			)},
	)
	r.Register("garnishment", "22_garnishment", false,
		Descriptor{Code: "GN", Description: "garnishment", Tag: Tag{LeadingSpace: true}, Layout: garnishmentLayout, Validate: garnishmentValid},
	)
	r.Register("trade_check", "23_trade_check_for_check", false,
		Descriptor{Code: "TC", Description: "trade check", Layout: tradeCheckLayout, Validate: tradeCheckValid},
	)
	r.Register("nonmember_trade_check", "24_nonmember_trade_check", true,
		Descriptor{Code: "NT", Description: "non-member trade check", Tag: Tag{LeadingSpace: true}, Layout: nonmemberTradeCheckLayout,
			Validate: dates("date_reported", "date_opened")},
	)
	r.Register("chequing_saving", "25_chequing_saving", false,
		Descriptor{Code: "CS", Description: "chequing and saving", Tag: Tag{LeadingSpace: true}, Layout: chequingSavingLayout, Validate: chequingSavingValid},
	)
	r.Register("foreign_bureau", "27_foreign_bureau", false,
		Descriptor{Code: "FI", Description: "foreign bureau inquiries", Tag: Tag{LeadingSpace: true}, Layout: foreignBureauLayout},
	)
	r.Register("locate_special_service", "28_locate_special_service", false,
		Descriptor{Code: "LO", Description: "locate or special service", Tag: Tag{LeadingSpace: true}, Layout: locateSpecialServiceLayout,
			Validate: locateSpecialServiceValid},
	)
	r.Register("inquiries", "29_inquiries", false,
		Descriptor{Code: "IQ", Description: "inquiries", Tag: Tag{LeadingSpace: true}, Layout: inquiryLayout,
			Validate: On("member_number", MemberNumber)},
	)
	r.Register("consumer_declaration", "30_consumer_declaration", false,
		Descriptor{Code: "CD", Description: "consumer declaration", Tag: Tag{LeadingSpace: true}, Layout: consumerDeclarationLayout,
			Validate: dates("date_reported", "date_purged")},
	)
	r.Register("bureau_score", "31_bureau_score", false,
		Descriptor{Code: "BS", Description: "bureau score", Tag: Tag{LeadingSpace: true}, Layout: bureauScoreLayout,
			Validate: On("product_score", SignedDigits)},
	)
}
