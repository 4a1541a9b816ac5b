package mailbox

import "strings"

// gmailAllMail is the platform-specific archive alias used when an account
// has no folder literally named Archive.
const gmailAllMail = "[Gmail]/All Mail"

// ResolvePath maps a logical folder name onto a server path. Resolution
// order: the inbox root, a folder with that name, the all-mail alias for
// Archive, then a folder with that exact path.
func ResolvePath(folders []Folder, name string) (string, bool) {
	if strings.EqualFold(name, "inbox") {
		return "INBOX", true
	}

	for _, folder := range folders {
		if folder.Name == name {
			return folder.Path, true
		}
	}
	if name == "Archive" {
		return gmailAllMail, true
	}
	for _, folder := range folders {
		if folder.Path == name {
			return folder.Path, true
		}
	}
	return "", false
}
