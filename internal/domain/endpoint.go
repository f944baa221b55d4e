package domain

// EndpointType identifies the kind of inventory provider backing a source
type EndpointType string

const (
	// EndpointGDrive inventories a Google Drive folder tree
	EndpointGDrive EndpointType = "gdrive"

	// EndpointLocal inventories a local directory tree
	EndpointLocal EndpointType = "local"

	// EndpointSnapshot replays a previously exported inventory CSV
	EndpointSnapshot EndpointType = "snapshot"
)

// IsValid checks if the endpoint type is a known value
func (t EndpointType) IsValid() bool {
	switch t {
	case EndpointGDrive, EndpointLocal, EndpointSnapshot:
		return true
	}
	return false
}

// Endpoint defines one source site to inventory
type Endpoint struct {
	// Name is the unique identifier, also the default display name
	Name string `mapstructure:"name"`

	// Type identifies the provider backing this endpoint
	Type EndpointType `mapstructure:"type"`

	// SiteURL is the user-facing URL of the site, echoed in reports
	SiteURL string `mapstructure:"url"`

	// Root is the path within the site to inventory (gdrive, local)
	Root string `mapstructure:"root"`

	// Snapshot is the inventory CSV path (snapshot endpoints only)
	Snapshot string `mapstructure:"snapshot"`

	// Credentials holds provider-specific auth settings (gdrive only)
	Credentials map[string]string `mapstructure:"credentials"`
}

// Validate checks if the endpoint is properly configured
func (e Endpoint) Validate() error {
	if e.Name == "" {
		return ErrConfigInvalid
	}
	if !e.Type.IsValid() {
		return ErrConfigInvalid
	}
	switch e.Type {
	case EndpointSnapshot:
		if e.Snapshot == "" {
			return ErrConfigInvalid
		}
	case EndpointLocal:
		if e.Root == "" {
			return ErrConfigInvalid
		}
	}
	return nil
}
