package metrics

const (
	labelKeyEventType     = "event_type"
	labelKeyPublisherName = "publisher_name"
	labelKeyHandlerName   = "handler_name"
	labelKeyNotification  = "notification"
	labelSuccess          = "success"
)

var (
	publisherLabelKeys = []string{
		labelKeyEventType,
		labelKeyPublisherName,
		labelSuccess,
	}

	handlerLabelKeys = []string{
		labelKeyHandlerName,
		labelKeyNotification,
		labelSuccess,
	}
)

func successLabel(err error) string {
	if err != nil {
		return "false"
	}
	return "true"
}
