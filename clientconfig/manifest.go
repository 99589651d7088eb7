/**
 * @Author Awen
 * @Date 2025/07/21
 * @Email wengaolng@gmail.com
 **/

package clientconfig

import (
	"fmt"
)

// ClientDeclaration declares one named client. Value and Name are
// interchangeable, Value winning when both are set.
type ClientDeclaration struct {
	Value  string
	Name   string
	Config *ClientConfig
}

// clientName .
func (d *ClientDeclaration) clientName() (string, error) {
	if d.Value != "" {
		return d.Value, nil
	}
	if d.Name != "" {
		return d.Name, nil
	}
	return "", fmt.Errorf("either 'name' or 'value' must be provided in a client declaration")
}

// Manifest is a static declaration of client configurations, registered in
// one shot at startup: the Clients list first, then the default
// configuration, then the single Client.
type Manifest struct {
	Clients []ClientDeclaration
	Client  *ClientDeclaration

	// DefaultConfig is registered under "default." + Enclosing, falling
	// back to "default." + Owner.
	DefaultConfig *ClientConfig
	Owner         string
	Enclosing     string
}

// RegisterManifest validates the whole manifest and registers its records.
// An invalid declaration makes the registration fail as a configuration
// error and leaves the registry untouched.
func RegisterManifest(registry *Registry, manifest *Manifest) error {
	if manifest == nil {
		return nil
	}

	type pendingRecord struct {
		name   string
		config *ClientConfig
	}
	var pending []pendingRecord

	for i := range manifest.Clients {
		declaration := &manifest.Clients[i]
		name, err := declaration.clientName()
		if err != nil {
			return err
		}
		pending = append(pending, pendingRecord{name: name, config: declaration.Config})
	}

	if manifest.DefaultConfig != nil {
		owner := manifest.Enclosing
		if owner == "" {
			owner = manifest.Owner
		}
		if owner == "" {
			return fmt.Errorf("an owner is required when a default configuration is provided")
		}
		pending = append(pending, pendingRecord{name: DefaultRecordPrefix + owner, config: manifest.DefaultConfig})
	}

	if manifest.Client != nil {
		name, err := manifest.Client.clientName()
		if err != nil {
			return err
		}
		pending = append(pending, pendingRecord{name: name, config: manifest.Client.Config})
	}

	for _, record := range pending {
		registry.Register(record.name, record.config)
	}
	return nil
}
