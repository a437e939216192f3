package segment

import (
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blank 生成长度为 n 的空格串，并在指定偏移处写入内容
func blank(n int, at map[int]string) string {
	buf := []byte{}
	for i := 0; i < n; i++ {
		buf = append(buf, ' ')
	}
	for off, s := range at {
		copy(buf[off:], s)
	}
	return string(buf)
}

func TestLocate(t *testing.T) {
	body := "FULL CA 1 CA 2"

	assert.Equal(t, []int{5, 10}, Locate(body, Tag{Code: "CA", LeadingSpace: true}))
	assert.Equal(t, []int{5, 10}, Locate(body, Tag{Code: "CA"}))

	// 前导空格要求排除嵌在单词中的标签
	assert.Equal(t, []int{}, Locate("XCA 1", Tag{Code: "CA", LeadingSpace: true}))
	assert.Equal(t, []int{1}, Locate("XCA 1", Tag{Code: "CA"}))

	// 标签后必须跟空格
	assert.Equal(t, []int{}, Locate("FULL CAX", Tag{Code: "CA"}))

	got := Locate("FULL", Tag{Code: "CA"})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLocateNonOverlapping(t *testing.T) {
	assert.Equal(t, []int{0, 3}, Locate("AA AA ", Tag{Code: "AA"}))
	assert.Equal(t, []int{1, 7}, Locate(" AA AA AA ", Tag{Code: "AA", LeadingSpace: true}))
}

func TestLocateDeterministic(t *testing.T) {
	body := blank(300, map[int]string{0: "FULL", 40: " CO ", 120: " CO ", 250: " CO "})
	first := Locate(body, Tag{Code: "CO", LeadingSpace: true})
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, Locate(body, Tag{Code: "CO", LeadingSpace: true}))
	}
	assert.Equal(t, []int{41, 121, 251}, first)
}

func TestSlice(t *testing.T) {
	layout := Layout{
		text("a", 0, 2),
		date6("d", 4, 6, 2, 4),
	}

	raw := Slice("ab1234", 0, layout)
	assert.Equal(t, RawFields{"a": "ab", "d": "3412"}, raw)

	// 年份区间越界，整个字段为空
	raw = Slice("ab12", 0, layout)
	assert.Equal(t, RawFields{"a": "ab", "d": ""}, raw)

	raw = Slice("xxab1234", 2, layout)
	assert.Equal(t, "ab", raw["a"])
	assert.Equal(t, "3412", raw["d"])
}

func TestSliceTrimLeft(t *testing.T) {
	layout := Layout{leftTrimmed(text("c", 0, 6))}
	raw := Slice("  12 A", 0, layout)
	assert.Equal(t, "12 A", raw["c"])
}

func TestChecks(t *testing.T) {
	assert.False(t, MemberNumber("123AB4567"))
	assert.True(t, MemberNumber("123AB45678"))
	assert.True(t, MemberNumber("          "))
	assert.False(t, MemberNumber("123456789A"))

	assert.True(t, Date6Digits("202401"))
	assert.True(t, Date6Digits("      "))
	assert.False(t, Date6Digits("2024a1"))
	assert.False(t, Date6Digits("20241"))

	assert.True(t, IndustryCode("AB"))
	assert.True(t, IndustryCode("   "))
	assert.False(t, IndustryCode("A1"))

	assert.True(t, ValidName("SMITH"))
	assert.True(t, ValidName(""))
	assert.False(t, ValidName(" SMITH"))
	assert.False(t, ValidName("SM1TH"))
	assert.False(t, ValidName("SMITH/JONES"))

	assert.True(t, SignedDigits("-0042"))
	assert.True(t, SignedDigits("00710"))
	assert.True(t, SignedDigits(" 710 "))
	assert.False(t, SignedDigits("7 10"))
	assert.False(t, SignedDigits(""))

	assert.True(t, FirstDigit("  1200 BANK"))
	assert.False(t, FirstDigit("BANK"))
	assert.True(t, FirstDigit("    "))

	assert.True(t, OneOf("S", " ")(" "))
	assert.False(t, OneOf("S", " ")("s"))
	assert.True(t, CharIn("ABC ")("B"))
	assert.False(t, CharIn("ABC ")("R"))
}

func TestCombinators(t *testing.T) {
	raw := RawFields{"type_code": "X", "status_code": "D"}
	either := Any(
		On("type_code", OneOf("A", "J", "F")),
		On("status_code", OneOf("D", "S", "T")),
	)
	assert.True(t, either(raw))
	assert.False(t, All(On("type_code", OneOf("A")), either)(raw))
	assert.True(t, Always(nil))
}

func TestRegistryUnknownCode(t *testing.T) {
	r := Default()

	_, err := r.LayoutFor("ZZ")
	require.Error(t, err)
	assert.True(t, errors.IsBadRequest(err))
	assert.Equal(t, ReasonUnknownSegment, errors.Reason(err))

	_, err = r.IsValid("ZZ", RawFields{})
	assert.Equal(t, ReasonUnknownSegment, errors.Reason(err))
}

func TestRegistryLayoutFor(t *testing.T) {
	r := Default()

	ca, err := r.LayoutFor("CA")
	require.NoError(t, err)
	fa, err := r.LayoutFor("FA")
	require.NoError(t, err)
	assert.Equal(t, ca.Columns(), fa.Columns())

	d, err := r.Descriptor("FN")
	require.NoError(t, err)
	assert.Equal(t, "name", d.Table)
	assert.Equal(t, "former name", d.Description)
	assert.False(t, d.Tag.LeadingSpace)
	assert.Equal(t, Code("FN"), d.Tag.Code)
}

func TestRegistrySelect(t *testing.T) {
	r := Default()

	all, err := r.Select(nil)
	require.NoError(t, err)
	assert.Len(t, all, 18)
	assert.Equal(t, "address", all[0].Name)
	assert.Equal(t, "bureau_score", all[len(all)-1].Name)
	for _, tb := range all {
		assert.False(t, tb.Discontinued, tb.Name)
	}
	assert.Len(t, r.Tables(), 23)

	picked, err := r.Select([]string{"tax_lien", "address"})
	require.NoError(t, err)
	var names []string
	for _, tb := range picked {
		names = append(names, tb.Name)
	}
	if diff := cmp.Diff([]string{"address", "tax_lien"}, names); diff != "" {
		t.Errorf("Select() mismatch (-want +got):\n%s", diff)
	}

	_, err = r.Select([]string{"address", "nope"})
	require.Error(t, err)
	assert.Equal(t, ReasonUnknownTable, errors.Reason(err))
}

func TestRegistryTableSources(t *testing.T) {
	tb, err := Default().Table("employment")
	require.NoError(t, err)
	assert.Equal(t, []Code{"ES", "EF", "E2"}, tb.Sources)
	assert.Equal(t, "fff_segment_7_8_9_employment", tb.Identifier("ds").Name)
	assert.Equal(t, "ds.fff_segment_7_8_9_employment", tb.Identifier("ds").String())
}

func TestRegisterPanics(t *testing.T) {
	r := NewRegistry()
	r.Register("death", "6_death", false, Descriptor{Code: "DT", Layout: deathLayout})

	assert.Panics(t, func() {
		r.Register("death", "6_death", false, Descriptor{Code: "XX", Layout: deathLayout})
	})
	assert.Panics(t, func() {
		r.Register("other", "99_other", false, Descriptor{Code: "DT", Layout: deathLayout})
	})
	assert.Panics(t, func() {
		r.Register("mixed", "98_mixed", false,
			Descriptor{Code: "AA", Layout: deathLayout},
			Descriptor{Code: "BB", Layout: bureauScoreLayout},
		)
	})
}

func TestAddressValidation(t *testing.T) {
	r := Default()
	layout, err := r.LayoutFor("CA")
	require.NoError(t, err)

	seg := blank(130, map[int]string{
		0:   "CA ",
		3:   "12",
		14:  "MAIN ST",
		80:  "OTT",
		101: "ON",
		104: "K1A0B1",
		111: "03",
		114: "2019",
	})
	raw := Slice(seg, 0, layout)
	ok, err := r.IsValid("CA", raw)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "201903", raw["residence_since"])

	bad := blank(130, map[int]string{0: "CA ", 80: "OTT", 101: "ON", 104: "K1A", 111: "03", 114: "2019"})
	ok, err = r.IsValid("CA", Slice(bad, 0, layout))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmploymentSalaryIndicator(t *testing.T) {
	r := Default()
	layout, err := r.LayoutFor("ES")
	require.NoError(t, err)
	salary, indicator := layout.Columns().Index("monthly_salary"), layout.Columns().Index("monthly_salary_indicator")
	require.NotEqual(t, -1, indicator)

	seg := blank(130, map[int]string{0: "ES ", 3: "CLERK", 80: "OTTAWA", 89: "ON", 110: "$2500NV"})
	raw := Slice(seg, 0, layout)
	ok, err := r.IsValid("ES", raw)
	require.NoError(t, err)
	require.True(t, ok)

	values := layout.Values(raw)
	require.IsType(t, decimal.Decimal{}, values[salary])
	assert.True(t, decimal.NewFromInt(2500).Equal(values[salary].(decimal.Decimal)))
	assert.Equal(t, "NV", values[indicator])

	plain := layout.Values(Slice(blank(130, map[int]string{0: "ES ", 110: "$3K"}), 0, layout))
	assert.True(t, decimal.NewFromInt(3000).Equal(plain[salary].(decimal.Decimal)))
	assert.Nil(t, plain[indicator])
}

func TestDecodeHeader(t *testing.T) {
	body := blank(320, map[int]string{
		0:   "FULL",
		5:   "REF000000001",
		65:  "03/15/2024",
		80:  "DOE",
		106: "JANE",
		172: "13/45/1980",
	})
	values := DecodeHeader(body)
	require.Len(t, values, len(HeaderLayout))

	idx := func(name string) int { return HeaderLayout.Columns().Index(name) }
	assert.Equal(t, "FULL", values[idx("report_type")])
	assert.Equal(t, "REF000000001", values[idx("customer_reference_no")])
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), values[idx("this_report_date")])
	assert.Equal(t, "DOE", values[idx("last_name")])
	assert.Nil(t, values[idx("subjects_birth_age_date")])
	assert.Nil(t, values[idx("member_no")])
}
