// Package config handles loading and validating oxsim configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (OXSIM_*)
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Broker passwords and InfluxDB tokens should be set via environment variables
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	cfg, err := config.Load("configs/oxsim.yaml")
//	if errors.Is(err, fs.ErrNotExist) {
//	    cfg, err = config.Load("") // defaults plus environment
//	}
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Simulator.Device)
package config
