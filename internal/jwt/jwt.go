package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/thoas/go-funk"
	"pokertable-server/internal/config"
	"pokertable-server/internal/util"
)

// Issuer issues the JWT
const Issuer = "pokertable.server"

// Audience is the intended JWT audience
const Audience = "pokertable.client"

var publicKey *rsa.PublicKey
var privateKey *rsa.PrivateKey

// Claims are the claims of a player token
// Name is the display name at the table, a random one is picked when it is empty.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwtgo.RegisteredClaims
}

// User is the player a token was issued for
type User struct {
	ID   int64
	Name string
}

// LoadKeys will load the public and private keys
// this method should only be called once.
func LoadKeys() {
	cfg := config.Instance().JWT
	privateKey = loadPrivateKey(cfg.PrivateKey)
	publicKey = loadPublicKey(cfg.PublicKey)
}

// Sign will sign a JWT for the user
func Sign(userID int64, name string, ttl time.Duration) (string, error) {
	if privateKey == nil {
		panic("LoadKeys() not called")
	}

	now := time.Now()
	claims := Claims{
		Name: name,
		RegisteredClaims: jwtgo.RegisteredClaims{
			Audience: jwtgo.ClaimStrings{Audience},
			ID:       uuid.New().String(),
			IssuedAt: jwtgo.NewNumericDate(now),
			Issuer:   Issuer,
			Subject:  strconv.FormatInt(userID, 10),
		},
	}

	if ttl > 0 {
		claims.ExpiresAt = jwtgo.NewNumericDate(now.Add(ttl))
	}

	return jwtgo.NewWithClaims(jwtgo.SigningMethodRS256, claims).SignedString(privateKey)
}

// ValidUser will validate a signed JWT and return its user
func ValidUser(signedString string) (User, error) {
	if publicKey == nil {
		panic("LoadKeys() not called")
	}

	token, err := jwtgo.ParseWithClaims(signedString, &Claims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodRSA); !ok {
			return nil, errors.New("expected RS256 signing method")
		}

		return publicKey, nil
	})

	if err != nil {
		return User{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return User{}, fmt.Errorf("expected *jwt.Claims, got %T", token.Claims)
	}

	if !funk.ContainsString(claims.Audience, Audience) {
		return User{}, errors.New("invalid audience")
	}

	if claims.Issuer != Issuer {
		return User{}, errors.New("invalid issuer")
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return User{}, fmt.Errorf("invalid subject: %w", err)
	}

	name := claims.Name
	if name == "" {
		name = util.GetRandomName()
	}

	return User{ID: userID, Name: name}, nil
}

func loadPublicKey(path string) *rsa.PublicKey {
	b, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).Fatal("could not read file")
	}

	pem, err := jwtgo.ParseRSAPublicKeyFromPEM(b)
	if err != nil {
		logrus.WithError(err).Fatal("could not parse RSA public key")
	}

	return pem
}

func loadPrivateKey(path string) *rsa.PrivateKey {
	b, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).Fatal("could not read file")
	}

	pem, err := jwtgo.ParseRSAPrivateKeyFromPEM(b)
	if err != nil {
		logrus.WithError(err).Fatal("could not parse RSA private key")
	}

	return pem
}
