package models

import "time"

type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

type RefreshTokenData struct {
	JTI       string    `json:"jti" dynamodbav:"JTI"`
	UserID    uint      `json:"user_id" dynamodbav:"UserID"`
	Phone     string    `json:"phone" dynamodbav:"Phone"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"CreatedAt"`
	ExpiresAt time.Time `json:"expires_at" dynamodbav:"ExpiresAt"`
	Revoked   bool      `json:"revoked" dynamodbav:"Revoked"`
}
