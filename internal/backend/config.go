package backend

import (
	"errors"
	"fmt"

	"horas/internal/config"
	"horas/internal/sheets/google"
	"horas/internal/sheets/graph"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		HoursFileID:       appConfig.HoursFileID,
		PaymentsFileID:    appConfig.PaymentsFileID,
		HoursSheetName:    appConfig.HoursSheetName,
		PaymentsSheetName: appConfig.PaymentsSheetName,

		DataDirectory: appConfig.DataDir,

		Graph: graph.Config{
			TenantID:     appConfig.GraphTenantID,
			ClientID:     appConfig.GraphClientID,
			ClientSecret: appConfig.GraphClientSecret,
			SiteID:       appConfig.GraphSiteID,
			DriveID:      appConfig.GraphDriveID,
		},
		Google: google.Credentials{
			JSON: appConfig.GoogleServiceAccountJSON,
			File: appConfig.GoogleServiceAccountFile,
		},

		CacheTTL: appConfig.DatasetCacheTTL,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("negative cache ttl: %v", c.CacheTTL)
	}

	switch c.Type {
	case MemoryBackend:
		// DataDirectory defaults to "data"; missing seed files mean empty datasets.
	case LocalBackend:
		if c.DataDirectory == "" {
			return errors.New("data directory is required for local backend")
		}
		return c.requireFiles()
	case GraphBackend:
		if err := c.requireFiles(); err != nil {
			return err
		}
		return c.Graph.Validate()
	case DriveBackend, SheetsBackend:
		return c.requireFiles()
	}
	return nil
}

func (c Config) requireFiles() error {
	if c.HoursFileID == "" || c.PaymentsFileID == "" {
		return fmt.Errorf("hours and payments file ids are required for %s backend", c.Type)
	}
	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{MemoryBackend, LocalBackend, GraphBackend, DriveBackend, SheetsBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
