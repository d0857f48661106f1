package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appAuth "github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models/dto"
	"github.com/yigit/clubhub/internal/app/services"
	"github.com/yigit/clubhub/internal/app/views"
	"github.com/yigit/clubhub/internal/middleware"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
	"github.com/yigit/clubhub/internal/pkg/helpers"
	"github.com/yigit/clubhub/internal/pkg/validation"
)

// AuthController handles registration, login and logout
type AuthController struct {
	authService *services.AuthService
	cookie      middleware.SessionCookie
	views       *views.Renderer
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, cookie middleware.SessionCookie, views *views.Renderer, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
		views:       views,
		logger:      logger,
	}
}

// RegisterPage shows the registration form
// GET /register/
func (c *AuthController) RegisterPage(ctx *gin.Context) {
	c.views.HTML(ctx, http.StatusOK, "register.html", gin.H{
		"Title": "Register",
		"Form":  &dto.RegisterForm{},
	})
}

// Register creates a student account and signs it in
// POST /register/
func (c *AuthController) Register(ctx *gin.Context) {
	form := &dto.RegisterForm{}
	data := gin.H{"Title": "Register", "Form": form}
	if err := middleware.BindForm(ctx, form); err != nil {
		renderForm(ctx, c.views, "register.html", data, err)
		return
	}

	_, token, err := c.authService.Register(ctx.Request.Context(), form)
	if err != nil {
		if renderForm(ctx, c.views, "register.html", data, err) {
			return
		}
		middleware.HandleError(ctx, c.views, err)
		return
	}

	c.cookie.Set(ctx, token.Token, token.ExpiresAt)
	redirect(ctx, appAuth.DefaultLandingPath)
}

// LoginPage shows the login form
// GET /login/
func (c *AuthController) LoginPage(ctx *gin.Context) {
	if principal := appAuth.PrincipalFrom(ctx); principal.IsAuthenticated() {
		redirect(ctx, principal.LandingPath())
		return
	}
	c.views.HTML(ctx, http.StatusOK, "login.html", gin.H{
		"Title": "Log in",
		"Form":  &dto.LoginForm{Next: ctx.Query("next")},
	})
}

// Login signs a user in and redirects to next or the user's landing page
// POST /login/
func (c *AuthController) Login(ctx *gin.Context) {
	form := &dto.LoginForm{}
	data := gin.H{"Title": "Log in", "Form": form}
	if err := middleware.BindForm(ctx, form); err != nil {
		renderForm(ctx, c.views, "login.html", data, err)
		return
	}

	user, token, err := c.authService.Login(ctx.Request.Context(), form)
	if err != nil {
		switch {
		case renderForm(ctx, c.views, "login.html", data, err):
		case apperrors.Is(err, apperrors.ErrInvalidCredentials):
			data["Errors"] = map[string]string{
				validation.NonFieldErrors: "Please enter a correct username and password. Note that both fields may be case-sensitive.",
			}
			c.views.HTML(ctx, http.StatusBadRequest, "login.html", data)
		case apperrors.Is(err, apperrors.ErrAccountDisabled):
			data["Errors"] = map[string]string{validation.NonFieldErrors: "This account is inactive."}
			c.views.HTML(ctx, http.StatusBadRequest, "login.html", data)
		default:
			middleware.HandleError(ctx, c.views, err)
		}
		return
	}

	c.cookie.Set(ctx, token.Token, token.ExpiresAt)
	principal := appAuth.NewPrincipal(user, token.SessionID)
	redirect(ctx, helpers.SafeNextPath(form.Next, principal.LandingPath()))
}

// Logout revokes the current session
// POST /logout/
func (c *AuthController) Logout(ctx *gin.Context) {
	if token := c.cookie.Token(ctx); token != "" {
		if err := c.authService.Logout(ctx.Request.Context(), token); err != nil {
			c.logger.Error().Err(err).Msg("Failed to revoke session")
		}
	}
	c.cookie.Clear(ctx)
	redirect(ctx, appAuth.DefaultLandingPath)
}
