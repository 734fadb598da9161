package helpers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/golang-jwt/jwt/v5"
)

const EventsFolder = "events"

// TokenVerifier validates bearer tokens against either a shared HMAC secret
// or a remote JWKS.
type TokenVerifier struct {
	keyFunc jwt.Keyfunc
	methods []string
	jwks    *keyfunc.JWKS
}

func NewHMACVerifier(secret string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	key := []byte(secret)
	return &TokenVerifier{
		keyFunc: func(*jwt.Token) (interface{}, error) { return key, nil },
		methods: []string{"HS256", "HS384", "HS512"},
	}, nil
}

// NewJWKSVerifier fetches the key set once and keeps it refreshed in the
// background until Close is called or ctx is cancelled.
func NewJWKSVerifier(ctx context.Context, jwksURL string, logger *slog.Logger) (*TokenVerifier, error) {
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logger.Warn("JWKS refresh failed", "url", jwksURL, "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load JWKS from %s: %w", jwksURL, err)
	}
	return &TokenVerifier{
		keyFunc: jwks.Keyfunc,
		methods: []string{"RS256", "RS384", "RS512", "ES256", "ES384", "ES512"},
		jwks:    jwks,
	}, nil
}

func (tv *TokenVerifier) ValidateToken(tokenStr string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &UserClaims{}, tv.keyFunc,
		jwt.WithValidMethods(tv.methods),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.Identity() == "" {
		return nil, errors.New("token carries no user id")
	}
	return claims, nil
}

func (tv *TokenVerifier) Close() {
	if tv.jwks != nil {
		tv.jwks.EndBackground()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <t>" value.
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func StringTrim(s string) string {
	return strings.Trim(strings.TrimSpace(s), "\"'")
}

func IsRemoteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// CloudinaryUploader pushes event images to a fixed Cloudinary folder.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cld *cloudinary.Cloudinary, folder string) *CloudinaryUploader {
	return &CloudinaryUploader{cld: cld, folder: folder}
}

func (cu *CloudinaryUploader) Upload(ctx context.Context, src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", errors.New("image source is empty")
	}
	res, err := cu.cld.Upload.Upload(ctx, src, uploader.UploadParams{
		Folder: cu.folder,
		Tags:   []string{"eventapp"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image %s: %w", src, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected image %s: %s", src, res.Error.Message)
	}
	return res.SecureURL, nil
}
