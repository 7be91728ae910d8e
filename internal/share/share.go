// Package share builds the text a visitor shares and hands it to the clipboard.
package share

import (
	"fmt"
	"net/url"

	"github.com/atotto/clipboard"

	"luckylotto/internal/models"
)

const tagline = "이름이랑 생일로 로또 번호 뽑아봤는데 왠지 느낌 좋음 ✨"

// Text is the shareable blurb for name's numbers.
func Text(name string, numbers models.NumberSet) string {
	return fmt.Sprintf("🍀 %s님의 오늘 로또 번호: %s\n\n%s", name, numbers.Join(", "), tagline)
}

// CopyPayload is what goes on the clipboard: the blurb followed by the link.
func CopyPayload(text, link string) string {
	return text + "\n\n" + link
}

// TwitterIntentURL opens a prefilled post with text and link.
func TwitterIntentURL(text, link string) string {
	q := url.Values{}
	q.Set("text", text)
	q.Set("url", link)
	return "https://twitter.com/intent/tweet?" + q.Encode()
}

// Payload is everything a front end needs to offer sharing.
type Payload struct {
	Text    string `json:"text"`
	URL     string `json:"url"`
	Copy    string `json:"copy"`
	Twitter string `json:"twitter"`
}

// NewPayload builds the share payload for a result.
func NewPayload(name string, numbers models.NumberSet, link string) Payload {
	text := Text(name, numbers)
	return Payload{
		Text:    text,
		URL:     link,
		Copy:    CopyPayload(text, link),
		Twitter: TwitterIntentURL(text, link),
	}
}

// Copier writes text somewhere the user can paste it from.
type Copier interface {
	Copy(text string) error
}

// SystemClipboard copies to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard: no clipboard utility available")
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	return nil
}

// Notification is the transient message shown after a share attempt.
type Notification struct {
	Title       string
	Description string
	Failed      bool
}

// Notify copies payload and reports the outcome. It never fails: a denied
// clipboard is just a different notification.
func Notify(c Copier, payload string) Notification {
	if c == nil {
		return Notification{Title: "복사 실패", Description: "다시 시도해주세요.", Failed: true}
	}
	if err := c.Copy(payload); err != nil {
		return Notification{Title: "복사 실패", Description: "다시 시도해주세요.", Failed: true}
	}
	return Notification{Title: "복사 완료!", Description: "링크가 클립보드에 복사되었습니다."}
}
