package secs2

// Stream 2: equipment control and status — EC access, reports, remote commands.
func init() {
	// S2F13 Equipment Constant Request.
	register(2, 13, true, ToEquipment, true, false,
		Repeating("ECID", id()))
	// S2F14 Equipment Constant Data.
	register(2, 14, false, ToHost, false, false,
		Repeating("ECV", value()))

	// S2F15 New Equipment Constant Send.
	register(2, 15, true, ToEquipment, true, false,
		Repeating("DATA", List(
			id().Named("ECID"),
			value().Named("ECV"),
		)))
	// S2F16 New Equipment Constant Acknowledge.
	register(2, 16, false, ToHost, false, false, List(
		Leaf(FormatU1).Named("EAC"),
	))

	// S2F29 Equipment Constant Namelist Request.
	register(2, 29, true, ToEquipment, true, false,
		Repeating("ECID", id()))
	// S2F30 Equipment Constant Namelist.
	register(2, 30, false, ToHost, false, false,
		Repeating("DATA", List(
			id().Named("ECID"),
			Leaf(FormatASCII).Named("ECNAME"),
			value().Named("ECMIN"),
			value().Named("ECMAX"),
			value().Named("ECDEF"),
			Leaf(FormatASCII).Named("UNITS"),
		)))

	// S2F33 Define Report.
	register(2, 33, true, ToEquipment, true, false, List(
		id().Named("DATAID"),
		Repeating("DATA", List(
			id().Named("RPTID"),
			Repeating("VID", id()),
		)),
	))
	// S2F34 Define Report Acknowledge.
	register(2, 34, false, ToHost, false, false, List(
		Leaf(FormatU1).Named("DRACK"),
	))

	// S2F35 Link Event Report.
	register(2, 35, true, ToEquipment, true, false, List(
		id().Named("DATAID"),
		Repeating("DATA", List(
			id().Named("CEID"),
			Repeating("RPTID", id()),
		)),
	))
	// S2F36 Link Event Report Acknowledge.
	register(2, 36, false, ToHost, false, false, List(
		Leaf(FormatU1).Named("LRACK"),
	))

	// S2F37 En-/Disable Event Report.
	register(2, 37, true, ToEquipment, true, false, List(
		Leaf(FormatBoolean).Counted(1).Named("CEED"),
		Repeating("CEID", id()),
	))
	// S2F38 En-/Disable Event Report Acknowledge.
	register(2, 38, false, ToHost, false, false, List(
		Leaf(FormatU1).Named("ERACK"),
	))

	// S2F41 Host Command Send.
	register(2, 41, true, ToEquipment, true, false, List(
		Leaf(FormatASCII).Named("RCMD"),
		Repeating("PARAMS", List(
			Leaf(FormatASCII).Named("CPNAME"),
			value().Named("CPVAL"),
		)),
	))
	// S2F42 Host Command Acknowledge.
	register(2, 42, false, ToHost, false, false, List(
		Leaf(FormatU1).Named("HCACK"),
		Repeating("PARAMS", List(
			Leaf(FormatASCII).Named("CPNAME"),
			Leaf(FormatU1).Named("CPACK"),
		)),
	))
}
