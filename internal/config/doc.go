// Package config loads the notes CLI configuration.
//
// Configuration lives in notes.yaml (or notes.yml / notes.json) in the
// working directory. Every field has a default, so the file is optional.
// Environment variables override the file, and command-line flags override
// both.
//
// # Configuration File Structure
//
//	api:
//	  base_url: http://localhost:8000/api
//	  token: ""
//	  timeout: 10s
//	  rate_limit: 5
//	  burst: 10
//	cache:
//	  enabled: true
//	  dir: .notes-cache
//	mount:
//	  id: app
//	  title: Notes
//	preview:
//	  host: localhost
//	  port: 3000
//	  poll: 5s
//	export:
//	  dir: dist
//	  bucket: ""
//	  prefix: snapshots/
//	  region: us-east-1
//	log:
//	  level: info
//	  format: text
//	reactive:
//	  reset_dependencies: false
//	  max_depth: 64
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	cfg.ApplyEnv()
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
