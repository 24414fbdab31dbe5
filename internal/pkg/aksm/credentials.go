package aksm

import "regexp"

// Credentials are a building's device login. They are passed in per
// call and injected into the outbound document; nothing here stores
// them.
type Credentials struct {
	Username string
	Password string
}

var cmdOpenTag = regexp.MustCompile(`<cmd\b`)

// InjectCredentials inserts user/pass attributes onto the first <cmd>
// opening tag and leaves the rest of the document untouched. When both
// credentials are empty the document is returned unchanged.
//
// The splice is deliberately string-based rather than parse-and-
// reserialise: re-serialising could reformat or re-escape the document
// in ways the device has not been verified to accept. For the same
// reason quote characters inside the credentials are not escaped; the
// device's tolerance for them is unverified.
func InjectCredentials(xmlStr string, creds Credentials) string {
	if creds.Username == "" && creds.Password == "" {
		return xmlStr
	}
	loc := cmdOpenTag.FindStringIndex(xmlStr)
	if loc == nil {
		return xmlStr
	}
	return xmlStr[:loc[1]] + ` user="` + creds.Username + `" pass="` + creds.Password + `"` + xmlStr[loc[1]:]
}
