package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"luckylotto/internal/ads"
	"luckylotto/internal/animation"
	"luckylotto/internal/generator"
	"luckylotto/internal/metrics"
	"luckylotto/internal/middleware"
	"luckylotto/internal/models"
	"luckylotto/internal/services"
	"luckylotto/internal/share"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/google/uuid"
)

const (
	visitorKey = "visitorID"
	tabKey     = "tabID"

	// TabHeader carries the page-load id on HTMX requests.
	TabHeader = "X-Lotto-Tab"
	// TabField carries it on plain form posts and links.
	TabField = "tab"
)

// Options carries the settings the handlers need from the config.
type Options struct {
	CookieName string
	BaseURL    string
	Banners    ads.Banners
	Schedule   animation.Schedule
	Limiter    *middleware.RateLimiter
}

// HTTPHandler holds the dependencies for the HTTP handlers, like the session service.
type HTTPHandler struct {
	sessions  *services.SessionService
	templates *template.Template
	opts      Options
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(sessions *services.SessionService, templates *template.Template, opts Options) *HTTPHandler {
	if opts.CookieName == "" {
		opts.CookieName = "lotto_session"
	}
	if opts.Schedule == (animation.Schedule{}) {
		opts.Schedule = animation.DefaultSchedule()
	}
	return &HTTPHandler{
		sessions:  sessions,
		templates: templates,
		opts:      opts,
	}
}

// TemplateFuncs are available to every page template.
var TemplateFuncs = template.FuncMap{
	"ballColor": models.BallColor,
}

// ParseTemplates loads the page templates from fsys.
func ParseTemplates(fsys fs.FS, patterns ...string) (*template.Template, error) {
	return template.New("").Funcs(TemplateFuncs).ParseFS(fsys, patterns...)
}

// renderPage is a helper to perform a two-step template rendering.
// It first executes the content template into a buffer. HTMX requests get
// that fragment as is; everything else gets it wrapped in the layout.
func (h *HTTPHandler) renderPage(c *gin.Context, status int, pageData gin.H, contentTmpl string) {
	pageData["Tab"] = tabID(c)

	// Step 1: Render the specific page content into a buffer.
	buf := new(bytes.Buffer)
	if err := h.templates.ExecuteTemplate(buf, contentTmpl, pageData); err != nil {
		logger.Errorf("Error executing content template %s: %v", contentTmpl, err)
		c.String(http.StatusInternalServerError, "Template rendering error")
		return
	}

	if c.GetHeader("HX-Request") == "true" {
		c.Data(status, "text/html; charset=utf-8", buf.Bytes())
		return
	}

	// Step 2: Add the rendered content to the main data map and render the layout.
	pageData["PageContent"] = template.HTML(buf.String())

	page := new(bytes.Buffer)
	if err := h.templates.ExecuteTemplate(page, "layout.html", pageData); err != nil {
		logger.Errorf("Error executing layout template: %v", err)
		c.String(http.StatusInternalServerError, "Template rendering error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", page.Bytes())
}

// RegisterPublicRoutes registers routes that need no visitor session.
func (h *HTTPHandler) RegisterPublicRoutes(router *gin.Engine) {
	router.GET("/healthz", h.Health)
}

// RegisterVisitorRoutes registers the flow routes. The group must use VisitorMiddleware.
func (h *HTTPHandler) RegisterVisitorRoutes(group *gin.RouterGroup) {
	draw := []gin.HandlerFunc{h.PerformDraw}
	if h.opts.Limiter != nil {
		draw = append([]gin.HandlerFunc{h.opts.Limiter.Handler()}, draw...)
	}

	group.GET("/", h.ShowIndex)
	group.POST("/draw", draw...)
	group.POST("/complete", h.CompleteAnimation)
	group.POST("/reset", h.Reset)
	group.GET("/share", h.GetShare)
	group.GET("/export-result-csv", h.ExportResultCSV)
}

// VisitorMiddleware identifies the visitor by a session cookie, issuing one
// on the first visit. The cookie has no expiry so it dies with the browser.
// Each page load also carries its own tab id, so tabs sharing the cookie
// keep separate sessions; requests without one fall back to the cookie.
func (h *HTTPHandler) VisitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(h.opts.CookieName)
		if err == nil {
			_, err = uuid.Parse(id)
		}
		if err != nil {
			id = uuid.NewString()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     h.opts.CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(visitorKey, id)
		c.Set(tabKey, requestTab(c))
		c.Next()
		metrics.SetSessions(h.sessions.Count())
	}
}

// requestTab reads the tab id from the header, then the form or query.
// Anything that is not a uuid counts as absent.
func requestTab(c *gin.Context) string {
	tab := c.GetHeader(TabHeader)
	if tab == "" {
		tab = c.PostForm(TabField)
	}
	if tab == "" {
		tab = c.Query(TabField)
	}
	if _, err := uuid.Parse(tab); err != nil {
		return ""
	}
	return tab
}

func tabID(c *gin.Context) string {
	return c.GetString(tabKey)
}

func visitorSession(c *gin.Context) string {
	return c.GetString(visitorKey)
}

// sessionID scopes the session to the current tab when there is one.
func sessionID(c *gin.Context) string {
	if tab := tabID(c); tab != "" {
		return visitorSession(c) + "/" + tab
	}
	return visitorSession(c)
}

// Health reports liveness.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// ShowIndex handles the request for the home page. Every load is a new tab
// session starting at the form; whatever this page had before is dropped.
// Other tabs of the same browser are left alone.
func (h *HTTPHandler) ShowIndex(c *gin.Context) {
	h.sessions.ClearSession(sessionID(c))
	if sessionID(c) != visitorSession(c) {
		h.sessions.ClearSession(visitorSession(c))
	}
	c.Set(tabKey, uuid.NewString())
	h.renderInput(c, http.StatusOK, services.RawSubmission{}, nil)
}

// PerformDraw handles the form submission.
func (h *HTTPHandler) PerformDraw(c *gin.Context) {
	id := sessionID(c)
	raw := services.RawSubmission{
		Name:      c.PostForm(services.FieldName),
		BirthDate: c.PostForm(services.FieldBirthDate),
		Gender:    c.PostForm(services.FieldGender),
	}

	var state models.SessionState
	var today string
	err := h.sessions.WithController(id, func(ctl *services.Controller) error {
		_, err := ctl.Submit(raw)
		state = ctl.State()
		today = ctl.Today()
		return err
	})

	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		metrics.RecordDraw(metrics.OutcomeRejected)
		h.renderInput(c, http.StatusUnprocessableEntity, raw, verr)
	case errors.Is(err, services.ErrInvalidTransition):
		h.renderState(c, http.StatusConflict, state, today)
	case err != nil:
		logger.Errorf("Draw failed for session %s: %v", id, err)
		c.String(http.StatusInternalServerError, "Draw failed")
	default:
		metrics.RecordDraw(metrics.OutcomeAccepted)
		logger.Infof("Session %s entered animation", id)
		h.renderState(c, http.StatusOK, state, today)
	}
}

// CompleteAnimation handles the end-of-animation signal.
func (h *HTTPHandler) CompleteAnimation(c *gin.Context) {
	h.transition(c, (*services.Controller).CompleteAnimation)
}

// Reset handles the "draw again" button.
func (h *HTTPHandler) Reset(c *gin.Context) {
	h.transition(c, (*services.Controller).Reset)
}

func (h *HTTPHandler) transition(c *gin.Context, event func(*services.Controller) error) {
	var state models.SessionState
	var today string
	err := h.sessions.WithController(sessionID(c), func(ctl *services.Controller) error {
		err := event(ctl)
		state = ctl.State()
		today = ctl.Today()
		return err
	})

	status := http.StatusOK
	if err != nil {
		logger.Infof("Session %s: %v", sessionID(c), err)
		status = http.StatusConflict
	}
	h.renderState(c, status, state, today)
}

// GetShare returns the share payload for the visitor's result.
func (h *HTTPHandler) GetShare(c *gin.Context) {
	state, _, ok := h.result(c)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "no result to share"})
		return
	}
	c.JSON(http.StatusOK, share.NewPayload(state.Name, state.Numbers, h.opts.BaseURL))
}

// ExportResultCSV handles the request to download the result as a CSV file.
func (h *HTTPHandler) ExportResultCSV(c *gin.Context) {
	state, today, ok := h.result(c)
	if !ok {
		c.String(http.StatusConflict, "No result to export")
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment;filename=lotto_"+today+".csv")

	// Add BOM to ensure UTF-8 compatibility in Excel
	c.Writer.Write([]byte("\xef\xbb\xbf"))

	w := csv.NewWriter(c.Writer)

	// Write header
	if err := w.Write([]string{"이름", "날짜", "번호1", "번호2", "번호3", "번호4", "번호5", "보너스"}); err != nil {
		logger.Errorf("Error writing CSV header: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
		return
	}

	row := []string{csvSafe(state.Name), today}
	for _, n := range state.Numbers {
		row = append(row, strconv.Itoa(n))
	}
	if err := w.Write(row); err != nil {
		logger.Errorf("Error writing CSV row: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
		return
	}

	w.Flush()

	if err := w.Error(); err != nil {
		logger.Errorf("Error flushing CSV writer: %v", err)
		c.String(http.StatusInternalServerError, "Error writing CSV")
	}
}

// csvSafe keeps spreadsheets from reading a cell as a formula.
func csvSafe(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

func (h *HTTPHandler) result(c *gin.Context) (models.SessionState, string, bool) {
	var state models.SessionState
	var today string
	_ = h.sessions.WithController(sessionID(c), func(ctl *services.Controller) error {
		state = ctl.State()
		today = ctl.Today()
		return nil
	})
	return state, today, state.Kind == models.StateResult
}

// ballView is one ball as the templates draw it.
type ballView struct {
	Number  int
	Color   string
	DelayMs int64
	Bonus   bool
}

func (h *HTTPHandler) balls(numbers models.NumberSet, delay func(i int) time.Duration) []ballView {
	out := make([]ballView, len(numbers))
	for i, n := range numbers {
		out[i] = ballView{
			Number:  n,
			Color:   models.BallColor(n),
			DelayMs: delay(i).Milliseconds(),
			Bonus:   i == models.MainCount,
		}
	}
	return out
}

func (h *HTTPHandler) renderInput(c *gin.Context, status int, form services.RawSubmission, verr *services.ValidationError) {
	data := gin.H{
		"title": "오늘의 로또 번호",
		"Form":  form,
		"Errors": gin.H{
			"Name":      verr.Message(services.FieldName),
			"BirthDate": verr.Message(services.FieldBirthDate),
			"Gender":    verr.Message(services.FieldGender),
		},
	}
	h.renderPage(c, status, data, "input.html")
}

func (h *HTTPHandler) renderState(c *gin.Context, status int, state models.SessionState, today string) {
	switch state.Kind {
	case models.StateAnimating:
		sched := h.opts.Schedule
		data := gin.H{
			"title":           "추첨 중...",
			"Balls":           h.balls(state.Numbers, sched.DropAt),
			"CompleteAfterMs": sched.Total(models.NumberCount).Milliseconds(),
		}
		h.renderPage(c, status, data, "animation.html")
	case models.StateResult:
		data := gin.H{
			"title":   state.Name + "님의 오늘 로또 번호",
			"Name":    state.Name,
			"Today":   displayDate(today),
			"Balls":   h.balls(state.Numbers, func(i int) time.Duration { return time.Duration(i) * 150 * time.Millisecond }),
			"Share":   share.NewPayload(state.Name, state.Numbers, h.opts.BaseURL),
			"Ads":     h.opts.Banners,
			"Numbers": state.Numbers,
		}
		h.renderPage(c, status, data, "result.html")
	default:
		h.renderInput(c, status, services.RawSubmission{}, nil)
	}
}

// displayDate turns a day key into "2024년 6월 1일".
func displayDate(key string) string {
	t, err := time.Parse(generator.DateLayout, key)
	if err != nil {
		return key
	}
	return fmt.Sprintf("%d년 %d월 %d일", t.Year(), int(t.Month()), t.Day())
}
