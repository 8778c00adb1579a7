package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"adventcal/internal/adapters/http/middleware"
	doorStore "adventcal/internal/adapters/storage/door"
	"adventcal/internal/application/orchestrators"
	"adventcal/internal/domain/admin"
	"adventcal/internal/domain/door"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in message text is escaped (WithUnsafe is NOT set), so an
// admin typo cannot inject markup into the kids' pages.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// templatesDir is relative to the working directory the server starts
// from. Tests point it at the package-local directory.
var templatesDir = "internal/adapters/http/templates"

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	funcMap := template.FuncMap{
		"isLoggedIn": func() bool { return middleware.IsAdmin(r.Context()) },
		"csrfToken":  func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
		"monthName": func() string { return deps.Calendar.Month.String() },
		"yearNum":   func() int { return deps.Calendar.Year },
		"longDate":  func(t time.Time) string { return t.Format("2 January 2006") },
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// handleHome renders the portal page.
func handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	renderTemplate(w, r, "home.html", nil)
}

// handleDoorMessage runs the access gate for one (day, kid) request and
// renders the outcome. Bad or missing parameters get the same generic
// denial as an invalid day, so probing the URL space reveals nothing
// about the calendar's structure.
func handleDoorMessage(w http.ResponseWriter, r *http.Request) {
	day, dayErr := strconv.Atoi(r.URL.Query().Get("day"))
	kid, kidErr := strconv.Atoi(r.URL.Query().Get("kid"))
	if dayErr != nil {
		day = 0 // out of range, gate answers InvalidDay
	}
	if kidErr != nil {
		kid = 0 // not a recipient, gate answers InvalidRecipient
	}

	result, err := orchestrators.ExecuteReveal(r.Context(), orchestrators.RevealInput{
		Day: day,
		Kid: kid,
		Now: timeNow(),
	}, orchestrators.RevealDeps{
		Store:    deps.Store,
		Calendar: deps.Calendar,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	data := map[string]any{
		"Day":       result.Day,
		"KidName":   result.KidName,
		"Decision":  result.Decision,
		"Revealed":  result.Decision.State == door.StateRevealed,
		"Sealed":    result.Decision.State == door.StateNotYetOpen,
		"Disabled":  result.Decision.State == door.StateDisabled,
		"DebugMode": deps.Calendar.DebugMode,
	}
	renderTemplate(w, r, "door.html", data)
}

// handleLogin shows the password form and exchanges a correct password
// for a session cookie.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		renderTemplate(w, r, "login.html", map[string]any{"Error": ""})
	case "POST":
		err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
			Password: r.FormValue("password"),
		}, orchestrators.LoginDeps{Secret: deps.Secret})
		if err != nil {
			if errors.Is(err, admin.ErrWrongPassword) {
				w.WriteHeader(http.StatusUnauthorized)
				renderTemplate(w, r, "login.html", map[string]any{"Error": "Incorrect password"})
				return
			}
			internalError(w, err)
			return
		}
		token, err := sessions.Create()
		if err != nil {
			internalError(w, err)
			return
		}
		middleware.SetSessionCookie(w, token)
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

// handleLogout drops the session server-side and clears the cookie.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleAdmin renders the full-table message editor.
func handleAdmin(w http.ResponseWriter, r *http.Request) {
	records, err := orchestrators.ExecuteListDoors(r.Context(), orchestrators.ListDoorsInput{
		Authz: orchestrators.AdminCapability(),
	}, orchestrators.ListDoorsDeps{Store: deps.Store})
	if err != nil {
		renderStoreError(w, r, err)
		return
	}
	renderTemplate(w, r, "admin.html", map[string]any{
		"Records":   records,
		"Kid1Name":  deps.Calendar.Kid1Name,
		"Kid2Name":  deps.Calendar.Kid2Name,
		"DebugMode": deps.Calendar.DebugMode,
		"Saved":     r.URL.Query().Get("saved") == "1",
		"Error":     "",
	})
}

// handleAdminSave replaces the whole door table with the submitted form.
// The form always carries every row, so the save is an atomic full-table
// replace, so two admins racing cannot interleave partial rows.
func handleAdminSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	records := make([]door.Record, 0, deps.Calendar.MaxDay)
	for i := 1; i <= deps.Calendar.MaxDay; i++ {
		day, err := strconv.Atoi(r.FormValue(fmt.Sprintf("day_%d", i)))
		if err != nil {
			http.Error(w, fmt.Sprintf("row %d: day is not an integer", i), http.StatusBadRequest)
			return
		}
		records = append(records, door.Record{
			Day:         day,
			MessageKid1: r.FormValue(fmt.Sprintf("message_kid1_%d", i)),
			MessageKid2: r.FormValue(fmt.Sprintf("message_kid2_%d", i)),
			Active:      r.FormValue(fmt.Sprintf("active_%d", i)) == "on",
		})
	}

	err := orchestrators.ExecuteSaveDoors(r.Context(), orchestrators.SaveDoorsInput{
		Records: records,
		Authz:   orchestrators.AdminCapability(),
	}, orchestrators.SaveDoorsDeps{Store: deps.Store})
	if err != nil {
		renderStoreError(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin?saved=1", http.StatusSeeOther)
}

// handleQRBundle streams the zip of all provisioned door codes.
func handleQRBundle(w http.ResponseWriter, r *http.Request) {
	result, err := orchestrators.ExecuteProvision(r.Context(), orchestrators.ProvisionInput{
		Authz: orchestrators.AdminCapability(),
	}, orchestrators.ProvisionDeps{
		Calendar: deps.Calendar,
		Encoder:  deps.Encoder,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Archive)))
	if _, err := w.Write(result.Archive); err != nil {
		slog.Error("qr_bundle_write_failed", "error", err.Error())
	}
}

// renderStoreError maps store failures to admin-visible messages with
// enough detail to fix the input. Validation and corruption messages name
// the broken invariant; availability failures tell the admin to retry.
func renderStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, doorStore.ErrValidation):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, doorStore.ErrStoreCorrupt):
		w.WriteHeader(http.StatusConflict)
	case errors.Is(err, doorStore.ErrStoreUnavailable):
		w.WriteHeader(http.StatusServiceUnavailable)
	case errors.Is(err, orchestrators.ErrUnauthorized):
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	default:
		internalError(w, err)
		return
	}
	slog.Warn("admin_store_error", "error", err.Error())
	renderTemplate(w, r, "admin_error.html", map[string]any{"Error": err.Error()})
}
