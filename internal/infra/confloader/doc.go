// Package confloader provides the configuration loading mechanism.
//
// Loader layers several sources with koanf and unmarshals the result into a
// typed struct. Watcher reports changes to configuration files so callers
// can reload.
//
// Priority (highest to lowest):
//
//  1. Prefixed environment variables (WEBFRONT_SECTION__KEY)
//  2. Alias variables bound to a single key (NODE_ENV)
//  3. Configuration file (YAML)
//  4. Defaults already present in the target struct
//
// Nested sections in environment variable names are separated by a double
// underscore so that single underscores can stay inside key names:
//
//	WEBFRONT_BUILD__NODE_ENV=production  ->  build.node_env
package confloader
