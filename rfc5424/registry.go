package rfc5424

// Reserved IETF structured-data IDs and their documented parameter
// names, per RFC 5424 §7. This is a plain lookup table: Encode never
// consults it, and elements using other parameter names under these
// IDs are only rejected by the optional CheckReserved pass.
var reservedSDIDs = map[string][]string{
	"timeQuality": {"tzKnown", "isSynced", "syncAccuracy"},
	"origin":      {"ip", "enterpriseId", "software", "swVersion"},
	"meta":        {"sequenceId", "sysUpTime", "language"},
}

// ReservedSDID reports whether id is one of the IETF-reserved
// structured-data IDs, and if so returns its documented parameter
// names.
func ReservedSDID(id string) ([]string, bool) {
	params, ok := reservedSDIDs[id]
	return params, ok
}

// CheckReserved applies the stricter IETF-reserved validation to an
// element: if its ID is a reserved bare name, every parameter must be
// one of the parameters RFC 5424 documents for that ID. Elements with
// enterprise-qualified or unreserved IDs always pass.
func CheckReserved(e SDElement) error {
	known, ok := reservedSDIDs[e.ID]
	if !ok {
		return nil
	}
	for _, p := range e.Params {
		found := false
		for _, name := range known {
			if p.Name == name {
				found = true
				break
			}
		}
		if !found {
			return fieldErr("sd-param", p.Name, "not a documented parameter of reserved SD-ID "+e.ID)
		}
	}
	return nil
}
