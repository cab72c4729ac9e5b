package permissions

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"exitpass/config"
)

const (
	defaultTimezone    = "Asia/Riyadh"
	defaultSchoolName  = "ثانوية قرطبة الأهلية"
	defaultDestination = "966551141804"
	messagingHost      = "https://wa.me/"
)

var defaultLocation = sync.OnceValue(func() *time.Location {
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		panic(err)
	}
	return loc
})

// Location returns the reference zone used for every displayed date and time,
// independent of the server's local zone. It is the zone resolved by
// config.LoadConfig, or Asia/Riyadh when no config has been loaded.
func Location() *time.Location {
	if loc := config.AppConfig.Location; loc != nil {
		return loc
	}
	return defaultLocation()
}

// FormatDate renders t as DD-MM-YYYY in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("02-01-2006")
}

// FormatTime renders t as a 12-hour "H:MM" clock followed by ص before noon
// and م from noon on.
func FormatTime(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	hour := local.Hour()
	period := "ص"
	if hour >= 12 {
		period = "م"
	}
	display := hour
	switch {
	case hour > 12:
		display = hour - 12
	case hour == 0:
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, local.Minute(), period)
}

// RenderMessage fills the fixed notification template.
func RenderMessage(studentName, date, clock, teacherDisplayName, schoolName string) string {
	if schoolName == "" {
		schoolName = defaultSchoolName
	}
	return strings.Join([]string{
		"📌 سماح خروج طالب",
		"",
		"نفيدكم بالسماح بخروج الطالب المذكور أدناه من",
		schoolName + ":",
		"",
		"اسم الطالب: " + studentName,
		"التاريخ: " + date,
		"الوقت: " + clock,
		"",
		"وذلك بعلم واعتماد إدارة المدرسة.",
		"",
		"المعتمد:",
		"بواسطة " + teacherDisplayName,
		schoolName,
	}, "\n")
}

var uriUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeURIComponent percent-encodes s leaving only A-Z a-z 0-9 - _ . ! ~ * ' ( )
// unescaped, matching the browser function of the same name.
func EncodeURIComponent(s string) string {
	return uriUnescaper.Replace(url.QueryEscape(s))
}

// OutboundLink builds the messaging deep-link that pre-fills message for number.
func OutboundLink(number, message string) string {
	if number == "" {
		number = defaultDestination
	}
	return messagingHost + number + "?text=" + EncodeURIComponent(message)
}
