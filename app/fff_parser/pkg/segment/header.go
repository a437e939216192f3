package segment

// HeaderTable 报告头汇总表的表名后缀
const HeaderTable = "0_header"

// HeaderLayout 报告头的固定字段，偏移相对于报告正文起点（FULL 标记）
var HeaderLayout = Layout{
	text("report_type", 0, 4),
	text("customer_reference_no", 5, 17),
	text("member_no", 18, 28),
	text("consumer_referral_no", 29, 32),
	text("ecoa_inquiry_type", 34, 35),
	text("output_format_code", 36, 37),
	text("hit_no_hit_designator", 41, 42),
	date8("file_since_date", 43, 53),
	date8("last_activity_date", 54, 64),
	date8("this_report_date", 65, 75),
	text("last_name", 80, 105),
	text("first_name", 106, 121),
	text("middle_name_or_initial", 122, 137),
	text("suffixs", 138, 140),
	text("spouses_name", 141, 156),
	text("record_code_ss", 160, 162),
	text("subjects_sin", 162, 171),
	date8("subjects_birth_age_date", 172, 182),
	text("record_code_so", 190, 192),
	text("total_no_of_inquiries", 202, 205),
	text("warning_message", 208, 209),
	text("alert_indicator_flag", 210, 211),
	text("segment_counter", 240, 302),
	text("alert_flag", 312, 314),
	text("deposit_flag", 315, 316),
	text("safescan_byte_1", 317, 318),
	text("safescan_is_byte_2", 318, 319),
}

// DecodeHeader 切出并转换报告头字段，顺序与 HeaderLayout 一致
func DecodeHeader(body string) []any {
	return HeaderLayout.Values(Slice(body, 0, HeaderLayout))
}
