package domain

// Release describes a pushed backup tag, as handed to a release publisher.

type Release struct {
	TagName  string
	Version  Version
	Previous Version
	Commit   string
	Message  string
}
