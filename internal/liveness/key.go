package liveness

// keyPrefix is the namespace shared with the token issuance services.
const keyPrefix = "access_token:"

// Key builds the liveness record key for a token. The format is shared with
// the login and refresh services that insert the records:
//
//	access_token:{email}/{domain}/{rawToken}
func Key(email, domain, rawToken string) string {
	return keyPrefix + email + "/" + domain + "/" + rawToken
}
