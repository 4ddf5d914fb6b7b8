package secs2

// Stream 6: data collection / event reports.
func init() {
	reportBody := func() Template {
		return List(
			id().Named("DATAID"),
			id().Named("CEID"),
			Repeating("RPT", List(
				id().Named("RPTID"),
				Repeating("V", value()),
			)),
		)
	}

	// S6F11 Event Report Send.
	register(6, 11, true, ToHost, true, false, reportBody())
	// S6F12 Event Report Acknowledge.
	register(6, 12, false, ToEquipment, false, false, List(
		Leaf(FormatU1).Named("ACKC6"),
	))

	// S6F15 Event Report Request.
	register(6, 15, true, ToEquipment, true, false, List(
		id().Named("CEID"),
	))
	// S6F16 Event Report Data.
	register(6, 16, false, ToHost, false, false, reportBody())
}
