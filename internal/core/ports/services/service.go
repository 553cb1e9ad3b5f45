package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Session   SessionSvcFacade
	User      UserSvcFacade
	Token     TokenAuthoritySvc
	Providers OAuthProviderRegistry
	// OAuthState is nil when no Redis is configured; redirect-based login is then disabled.
	OAuthState OAuthStateStore
}
