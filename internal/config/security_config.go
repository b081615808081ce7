package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityAdmin                       // Access token with the admin role
)

// EndpointSecurityConfig maps route templates to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	"/healthz": SecurityPublic,
	"/metrics": SecurityPublic,

	"/product/all":             SecurityPublic,
	"/product/{id:[0-9]+}":     SecurityPublic,
	"/land/all":                SecurityPublic,
	"/land/{id:[0-9]+}":        SecurityPublic,
	"/equipment/all":           SecurityPublic,
	"/equipment/{id:[0-9]+}":   SecurityPublic,
	"/product/add":             SecurityAccess,
	"/product/my-products":     SecurityAccess,
	"/product/update/{id}":     SecurityAccess,
	"/product/delete/{id}":     SecurityAccess,
	"/land/add":                SecurityAccess,
	"/land/my-lands":           SecurityAccess,
	"/land/update/{id}":        SecurityAccess,
	"/land/delete/{id}":        SecurityAccess,
	"/equipment/add":           SecurityAccess,
	"/equipment/my-equipments": SecurityAccess,
	"/equipment/update/{id}":   SecurityAccess,
	"/equipment/delete/{id}":   SecurityAccess,

	"/transaction/create/{resource_type}/{resource_id}": SecurityAccess,
	"/transaction/my":           SecurityAccess,
	"/lease/my-leases":          SecurityAccess,
	"/lease/update-status/{id}": SecurityAccess,
	"/lease/all":                SecurityAdmin,
	"/lease/delete/{id}":        SecurityAdmin,
	"/user/balance":             SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route template
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to authenticated access for unknown endpoints
	return SecurityAccess
}
