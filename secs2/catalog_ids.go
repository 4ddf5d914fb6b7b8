package secs2

// idFormats lists the wire formats the GEM layer allows for SV/DV/EC/
// CE/RPTID/ALID/ECID identifiers, which section 3's catalog tables
// declare as "int or string" identity.
var idFormats = []Format{
	FormatU1, FormatU2, FormatU4, FormatU8,
	FormatI1, FormatI2, FormatI4, FormatI8,
	FormatASCII,
}

// valueFormats lists every scalar wire format a reported SV/DV/ECV/V
// value may take.
var valueFormats = []Format{
	FormatList, FormatBinary, FormatBoolean, FormatASCII, FormatJIS8,
	FormatU1, FormatU2, FormatU4, FormatU8,
	FormatI1, FormatI2, FormatI4, FormatI8,
	FormatF4, FormatF8,
}

func id() Template    { return DynamicLeaf(idFormats...) }
func value() Template { return DynamicLeaf(valueFormats...) }
