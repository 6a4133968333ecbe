package models

// JobClaims is the claim set of a job submission token. The job payload
// travels inside the signed token so the intake never trusts an unsigned body.
type JobClaims struct {
	Issuer    string `json:"iss"` // optional
	Subject   string `json:"sub"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
	Job       Job    `json:"job"`
}
