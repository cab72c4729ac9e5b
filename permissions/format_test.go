package permissions

import (
	"strings"
	"testing"
	"time"

	"exitpass/config"
)

func TestFormatDateAndTime(t *testing.T) {
	loc := Location()
	cases := []struct {
		instant  time.Time
		wantDate string
		wantTime string
	}{
		{time.Date(2025, 3, 1, 6, 5, 0, 0, time.UTC), "01-03-2025", "9:05 ص"},
		{time.Date(2025, 2, 28, 21, 30, 0, 0, time.UTC), "01-03-2025", "12:30 ص"},
		{time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), "01-03-2025", "12:00 م"},
		{time.Date(2025, 3, 1, 10, 7, 0, 0, time.UTC), "01-03-2025", "1:07 م"},
		{time.Date(2025, 12, 31, 20, 59, 0, 0, time.UTC), "31-12-2025", "11:59 م"},
	}
	for _, c := range cases {
		if got := FormatDate(c.instant, loc); got != c.wantDate {
			t.Errorf("FormatDate(%v) = %q, want %q", c.instant, got, c.wantDate)
		}
		if got := FormatTime(c.instant, loc); got != c.wantTime {
			t.Errorf("FormatTime(%v) = %q, want %q", c.instant, got, c.wantTime)
		}
	}
}

func TestLocationUsesLoadedZone(t *testing.T) {
	if got := Location().String(); got != "Asia/Riyadh" {
		t.Errorf("expected Asia/Riyadh before any config is loaded, got %q", got)
	}

	zone := time.FixedZone("UTC+2", 2*3600)
	config.AppConfig.Location = zone
	defer func() { config.AppConfig.Location = nil }()

	if Location() != zone {
		t.Fatalf("expected the loaded zone, got %v", Location())
	}
	if got := FormatTime(time.Date(2025, 3, 1, 6, 5, 0, 0, time.UTC), Location()); got != "8:05 ص" {
		t.Errorf("FormatTime in loaded zone = %q, want 8:05 ص", got)
	}
}

func TestFormattingIgnoresInputZone(t *testing.T) {
	loc := Location()
	utc := time.Date(2025, 3, 1, 6, 5, 0, 0, time.UTC)
	tokyo := utc.In(time.FixedZone("JST", 9*3600))
	if FormatDate(utc, loc) != FormatDate(tokyo, loc) || FormatTime(utc, loc) != FormatTime(tokyo, loc) {
		t.Error("formatting depends on the zone of the input instant")
	}
}

func TestEncodeURIComponent(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a b", "a%20b"},
		{"!'()*~-_.", "!'()*~-_."},
		{"1+1=2", "1%2B1%3D2"},
		{"line\nbreak", "line%0Abreak"},
		{"خ", "%D8%AE"},
		{"100% :/?#&", "100%25%20%3A%2F%3F%23%26"},
		{"📌", "%F0%9F%93%8C"},
	}
	for _, c := range cases {
		if got := EncodeURIComponent(c.in); got != c.want {
			t.Errorf("EncodeURIComponent(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRenderMessage(t *testing.T) {
	want := "📌 سماح خروج طالب\n" +
		"\n" +
		"نفيدكم بالسماح بخروج الطالب المذكور أدناه من\n" +
		"ثانوية قرطبة الأهلية:\n" +
		"\n" +
		"اسم الطالب: نادر خالد القحطاني\n" +
		"التاريخ: 01-03-2025\n" +
		"الوقت: 9:05 ص\n" +
		"\n" +
		"وذلك بعلم واعتماد إدارة المدرسة.\n" +
		"\n" +
		"المعتمد:\n" +
		"بواسطة أ. خالد\n" +
		"ثانوية قرطبة الأهلية"

	got := RenderMessage("نادر خالد القحطاني", "01-03-2025", "9:05 ص", "أ. خالد", "")
	if got != want {
		t.Errorf("RenderMessage mismatch:\n got: %q\nwant: %q", got, want)
	}

	custom := RenderMessage("s", "d", "t", "n", "مدرسة أخرى")
	if !strings.HasSuffix(custom, "\nمدرسة أخرى") || strings.Contains(custom, "قرطبة") {
		t.Errorf("school name not substituted: %q", custom)
	}
}

func TestOutboundLink(t *testing.T) {
	got := OutboundLink("", "a b")
	if got != "https://wa.me/966551141804?text=a%20b" {
		t.Errorf("unexpected default link %q", got)
	}
	got = OutboundLink("15551234567", "hi")
	if got != "https://wa.me/15551234567?text=hi" {
		t.Errorf("unexpected link %q", got)
	}
}
