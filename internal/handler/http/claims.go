package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

var errMissingClaims = errors.New("token is missing required claims")

type authClaims struct {
	UserID     string
	EmployeeID string
	CompanyID  string
	IsAdmin    bool
}

// claimsFrom extracts the identity claims the attendance endpoints rely on.
// The verifier middleware has already validated the token; absent claims
// mean a token minted for a different audience.
func claimsFrom(r *http.Request) (authClaims, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return authClaims{}, err
	}

	c := authClaims{}
	c.UserID, _ = claims["user_id"].(string)
	c.EmployeeID, _ = claims["employee_id"].(string)
	c.CompanyID, _ = claims["company_id"].(string)
	c.IsAdmin, _ = claims["is_admin"].(bool)

	if c.CompanyID == "" {
		return authClaims{}, errMissingClaims
	}
	return c, nil
}
