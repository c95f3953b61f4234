// Package hcl provides the HCL implementation of config.Loader. The file may
// reference environment variables through the env object, for example
// cache_dir = "${env.HOME}/.noir-cache".
package hcl
