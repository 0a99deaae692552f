// Package web3forms prepares submissions for the external form-relay
// service that delivers invitation links. The relay is driven by the
// invitee-facing browser form; the server only assembles the payload and
// the post-send redirect target, and never observes delivery outcome.
package web3forms

import "net/url"

// Endpoint is the form-relay submission URL the client form posts to.
const Endpoint = "https://api.web3forms.com/submit"

// Payload is everything the client form needs to relay an invitation.
type Payload struct {
	AccessKey   string `json:"access_key"`
	Subject     string `json:"subject"`
	GroupName   string `json:"group_name"`
	AcceptLink  string `json:"accept_link"`
	RedirectURL string `json:"redirect_url"`
}

// NewInvitePayload builds the relay payload for one invitation.
// acceptPath is the invite's acceptance path, resolved against the site
// origin; redirectTarget is where the relay sends the browser after a
// successful submission.
func NewInvitePayload(accessKey, siteOrigin, groupName, acceptPath, redirectTarget string) Payload {
	return Payload{
		AccessKey:   accessKey,
		Subject:     "You have been invited to join " + groupName,
		GroupName:   groupName,
		AcceptLink:  resolve(siteOrigin, acceptPath),
		RedirectURL: resolve(siteOrigin, redirectTarget),
	}
}

// resolve joins origin and path, falling back to plain concatenation when
// the origin does not parse.
func resolve(origin, path string) string {
	base, err := url.Parse(origin)
	if err != nil {
		return origin + path
	}
	ref, err := url.Parse(path)
	if err != nil {
		return origin + path
	}
	return base.ResolveReference(ref).String()
}
