// Package collabsdk is a Go client for the collab API.
//
// Unauthenticated calls (register, login, health, JWKS) hang off Client.
// Logging in returns a Session that carries the bearer token:
//
//	c := collabsdk.NewClient("http://localhost:8080")
//	s, err := c.Login(ctx, "alice", "correct horse battery")
//	if err != nil { ... }
//	p, err := s.CreateProject(ctx, collabsdk.CreateProjectRequest{Name: "Apollo"})
//
// Non-2xx responses come back as *APIError. Use IsCode to branch on them:
//
//	if collabsdk.IsCode(err, collabsdk.ErrorCodeInviteExpired) { ... }
package collabsdk
