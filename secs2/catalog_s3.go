package secs2

// Stream 3: material status, per original_source's s03f01.py/s03f02.py
// and data_items/loc.py/mf.py — template supplemented per SPEC_FULL.md.
func init() {
	materialStatus := List(
		Leaf(FormatU1).Named("MF"),
		Repeating("DATA", List(
			Leaf(FormatU1).Named("LOC"),
			Leaf(FormatASCII).Bounded(80).Named("MID"),
		)),
	)

	// S3F1 Material Status Send.
	register(3, 1, true, ToEquipment, true, false, materialStatus)
	// S3F2 Material Status Acknowledge — mirrors S3F1's structure.
	register(3, 2, false, ToHost, false, false, materialStatus)
}
