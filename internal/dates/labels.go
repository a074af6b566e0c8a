package dates

type labels struct {
	days      [7]string
	daysShort [7]string
	months    [12]string
	today     string
	tomorrow  string
	noDate    string
	dayFirst  bool
}

var english = labels{
	days:      [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	daysShort: [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"},
	months: [12]string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
	today:    "Today",
	tomorrow: "Tomorrow",
	noDate:   "No date",
}

var german = labels{
	days:      [7]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"},
	daysShort: [7]string{"So", "Mo", "Di", "Mi", "Do", "Fr", "Sa"},
	months: [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember"},
	today:    "Heute",
	tomorrow: "Morgen",
	noDate:   "Kein Datum",
	dayFirst: true,
}

func labelsFor(locale string) labels {
	if locale == "de" {
		return german
	}
	return english
}
