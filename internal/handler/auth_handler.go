package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ciclexpress/website/internal/service"
	"github.com/ciclexpress/website/pkg/auth"
	"github.com/ciclexpress/website/pkg/flash"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const oauthStateCookieName = "oauth_state"

// AuthConfig configures the AuthHandler.
type AuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	BaseURL            string // external base URL for the OAuth callback
	SessionSecret      string
	SecureCookies      bool
	RecaptchaSiteKey   string
}

// AuthHandler handles local login/registration, logout and Google OAuth.
type AuthHandler struct {
	render        *Renderer
	authService   service.AuthService
	googleConfig  *oauth2.Config
	sessionSecret []byte
	secureCookies bool
	siteKey       string
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(render *Renderer, authService service.AuthService, cfg AuthConfig) *AuthHandler {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	return &AuthHandler{
		render:      render,
		authService: authService,
		googleConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  base + "/auth/google/callback",
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		sessionSecret: auth.SessionSecretBytes(cfg.SessionSecret),
		secureCookies: cfg.SecureCookies,
		siteKey:       cfg.RecaptchaSiteKey,
	}
}

// GoogleEnabled reports whether Google OAuth credentials are configured.
func (h *AuthHandler) GoogleEnabled() bool {
	return h.googleConfig.ClientID != "" && h.googleConfig.ClientSecret != ""
}

type loginFormData struct {
	RecaptchaSiteKey string
	GoogleEnabled    bool
}

// ShowLogin handles GET /login.
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "login", "Iniciar Sesión",
		loginFormData{RecaptchaSiteKey: h.siteKey, GoogleEnabled: h.GoogleEnabled()})
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flash.Set(w, flash.Error, "Solicitud inválida.")
		redirect(w, r, "/login")
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		flash.Set(w, flash.Error, "Usuario y contraseña son obligatorios.")
		redirect(w, r, "/login")
		return
	}

	user, err := h.authService.LoginLocal(r.Context(), username, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		flash.Set(w, flash.Error, "Credenciales incorrectas.")
		redirect(w, r, "/login")
		return
	}
	if err != nil {
		slog.Error("login failed", "error", err)
		flash.Set(w, flash.Error, "Hubo un error al iniciar sesión. Intenta de nuevo.")
		redirect(w, r, "/login")
		return
	}

	auth.SetSessionCookie(w, user.ID, h.sessionSecret, h.secureCookies)
	flash.Set(w, flash.Success, "¡Has iniciado sesión correctamente!")
	redirect(w, r, "/admin")
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	flash.Set(w, flash.Success, "Has cerrado sesión exitosamente.")
	redirect(w, r, "/")
}

// ShowRegister handles GET /register.
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, r, "register", "Registrar Nuevo Usuario", nil)
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flash.Set(w, flash.Error, "Solicitud inválida.")
		redirect(w, r, "/register")
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	displayName := strings.TrimSpace(r.PostFormValue("display_name"))
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("confirm_password")

	if username == "" || email == "" || password == "" || confirm == "" {
		flash.Set(w, flash.Error, "Nombre de usuario, email, contraseña y confirmación de contraseña son obligatorios.")
		redirect(w, r, "/register")
		return
	}
	if password != confirm {
		flash.Set(w, flash.Error, "Las contraseñas no coinciden.")
		redirect(w, r, "/register")
		return
	}

	_, err := h.authService.Register(r.Context(), username, email, password, displayName)
	if errors.Is(err, service.ErrUserExists) {
		flash.Set(w, flash.Error, "El nombre de usuario o el email ya está registrado.")
		redirect(w, r, "/register")
		return
	}
	if err != nil {
		slog.Error("registration failed", "error", err)
		flash.Set(w, flash.Error, "Hubo un error al registrar el usuario. Inténtalo de nuevo.")
		redirect(w, r, "/register")
		return
	}

	flash.Set(w, flash.Success, "Usuario registrado exitosamente. ¡Ahora puedes iniciar sesión!")
	redirect(w, r, "/login")
}

// generateOAuthState creates the random state string for CSRF protection.
func generateOAuthState() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

func (h *AuthHandler) setStateCookie(w http.ResponseWriter, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.secureCookies,
	})
}

func verifyOAuthState(r *http.Request) bool {
	cookie, err := r.Cookie(oauthStateCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	return cookie.Value == r.URL.Query().Get("state")
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Expires:  time.Unix(0, 0),
	})
}

// GoogleLogin handles GET /auth/google: set the state cookie and send the
// browser to Google's consent screen.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.GoogleEnabled() {
		flash.Set(w, flash.Error, "El inicio de sesión con Google no está disponible.")
		redirect(w, r, "/login")
		return
	}
	state := generateOAuthState()
	h.setStateCookie(w, state)
	http.Redirect(w, r, h.googleConfig.AuthCodeURL(state), http.StatusFound)
}

type googleUserInfo struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleCallback handles GET /auth/google/callback.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !verifyOAuthState(r) {
		clearStateCookie(w)
		flash.Set(w, flash.Error, "La verificación de seguridad falló. Intenta iniciar sesión de nuevo.")
		redirect(w, r, "/login")
		return
	}
	clearStateCookie(w)

	code := r.URL.Query().Get("code")
	if code == "" {
		flash.Set(w, flash.Error, "Google no devolvió un código de autorización.")
		redirect(w, r, "/login")
		return
	}

	token, err := h.googleConfig.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("oauth exchange failed", "error", err)
		flash.Set(w, flash.Error, "No se pudo completar el inicio de sesión con Google.")
		redirect(w, r, "/login")
		return
	}

	client := h.googleConfig.Client(r.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil {
		slog.Error("oauth userinfo failed", "error", err)
		flash.Set(w, flash.Error, "No se pudo obtener tu perfil de Google.")
		redirect(w, r, "/login")
		return
	}
	defer resp.Body.Close()

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		slog.Error("oauth userinfo decode failed", "error", err)
		flash.Set(w, flash.Error, "No se pudo obtener tu perfil de Google.")
		redirect(w, r, "/login")
		return
	}

	user, err := h.authService.GetOrCreateUserFromGoogle(r.Context(), &service.GoogleUserInfo{
		Sub:   info.Sub,
		Email: info.Email,
		Name:  info.Name,
	})
	if err != nil {
		slog.Error("google user create failed", "error", err)
		flash.Set(w, flash.Error, "Hubo un error al iniciar sesión con Google.")
		redirect(w, r, "/login")
		return
	}

	auth.SetSessionCookie(w, user.ID, h.sessionSecret, h.secureCookies)
	flash.Set(w, flash.Success, "¡Has iniciado sesión correctamente!")
	redirect(w, r, "/admin")
}
