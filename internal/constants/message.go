package constants

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

// ImageAttachmentPlaceholder replaces image blocks before a message is
// persisted. Image bytes are never stored.
const ImageAttachmentPlaceholder = "[Фото прикреплено]"

// SessionTitleEllipsis is appended to truncated session titles.
const SessionTitleEllipsis = "..."

// AllowedImageMediaTypes is the fixed allow-list for inline image blocks.
var AllowedImageMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}
