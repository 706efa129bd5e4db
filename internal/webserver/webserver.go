package webserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/pprof"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kopihub/kopihub/config"
)

// JwtClaims is the bearer token payload issued at login.
type JwtClaims struct {
	UserId int64  `json:"uid,string"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type WebServer struct {
	cfg   *config.AppConfig
	root  *echo.Echo
	pub   *echo.Group
	api   *echo.Group
	admin *echo.Group
}

var server *WebServer

// Init builds the echo server with logging, recovery and the JWT-guarded
// route groups.
func Init(cfg *config.AppConfig) {
	server = NewWebServer(cfg)
}

func NewWebServer(cfg *config.AppConfig) *WebServer {
	root := echo.New()
	root.Pre(middleware.RemoveTrailingSlash())
	root.Use(middleware.Recover())
	root.Use(middleware.BodyLimit("16M"))
	root.Use(middleware.CORS())
	root.Use(ZapLoggerMiddleware())
	root.HideBanner = true
	root.HidePort = true
	root.Debug = cfg.System.Debug

	if cfg.System.Debug {
		pprof.Register(root)
	}

	ws := &WebServer{cfg: cfg, root: root}

	jwtConfig := echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(JwtClaims)
		},
		SigningKey: []byte(cfg.Web.Secret),
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"code": http.StatusUnauthorized,
				"msg":  "Forbidden",
				"error": map[string]string{
					"message": "missing or invalid bearer token",
				},
			})
		},
	}

	ws.pub = root.Group("")
	ws.api = root.Group("", echojwt.WithConfig(jwtConfig))
	ws.admin = root.Group("", echojwt.WithConfig(jwtConfig), RequireRole("admin"))
	return ws
}

// RequireRole rejects authenticated requests whose token role is not in
// the allowed set.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := GetClaims(c)
			if claims == nil {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"code": http.StatusUnauthorized,
					"msg":  "Forbidden",
					"error": map[string]string{
						"message": "missing token claims",
					},
				})
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]interface{}{
				"code": http.StatusForbidden,
				"msg":  "Forbidden",
				"error": map[string]string{
					"message": "access denied, insufficient permissions",
				},
			})
		}
	}
}

// GetClaims extracts the verified token claims, nil for public routes.
func GetClaims(c echo.Context) *JwtClaims {
	token, okay := c.Get("user").(*jwt.Token)
	if !okay {
		return nil
	}
	claims, okay := token.Claims.(*JwtClaims)
	if !okay {
		return nil
	}
	return claims
}

// SignToken issues a bearer token for the given account.
func SignToken(cfg *config.AppConfig, userID int64, email, role string) (string, error) {
	claims := JwtClaims{
		UserId: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Web.JwtIssuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Web.Secret))
}

// ZapLoggerMiddleware logs requests through the global zap logger.
func ZapLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}

// Listen starts the HTTP listener and blocks.
func Listen() error {
	addr := fmt.Sprintf("%s:%d", server.cfg.Web.Host, server.cfg.Web.Port)
	zap.S().Infof("starting web server on %s", addr)
	return server.root.Start(addr)
}

// Shutdown stops the HTTP listener.
func Shutdown() error {
	return server.root.Close()
}

// Route registration helpers. Pub* routes skip authentication, Api* routes
// require a valid bearer token, Admin* routes additionally require the
// admin role.

func PubGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.pub.GET(path, h, m...)
}

func PubPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.pub.POST(path, h, m...)
}

func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.GET(path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.POST(path, h, m...)
}

func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PUT(path, h, m...)
}

func ApiPATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PATCH(path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.DELETE(path, h, m...)
}

func AdminGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.admin.GET(path, h, m...)
}

func AdminPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.admin.POST(path, h, m...)
}

func AdminPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.admin.PUT(path, h, m...)
}

func AdminDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.admin.DELETE(path, h, m...)
}
