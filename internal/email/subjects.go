package email

const (
	subjectNotificationFmt = "[%s] %s"
)
