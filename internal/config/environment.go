package config

import (
	"net"
	"os"
	"strconv"
)

// Environment variables honoured for OpenShift-style deployments
const (
	EnvListenIP      = "OPENSHIFT_NODEJS_IP"
	EnvListenPort    = "OPENSHIFT_NODEJS_PORT"
	EnvRedisHost     = "OPENSHIFT_REDIS_HOST"
	EnvRedisPort     = "OPENSHIFT_REDIS_PORT"
	EnvRedisPassword = "REDIS_PASSWORD"
)

// ApplyEnv overrides listener and Redis settings from the environment.
// Host and port variables may be set independently; the missing half is
// kept from the current value.
func (c *Config) ApplyEnv() {
	c.Server.Addr = overrideHostPort(c.Server.Addr, os.Getenv(EnvListenIP), os.Getenv(EnvListenPort))
	c.Store.Redis.Addr = overrideHostPort(c.Store.Redis.Addr, os.Getenv(EnvRedisHost), os.Getenv(EnvRedisPort))

	if pw := os.Getenv(EnvRedisPassword); pw != "" {
		c.Store.Redis.Password = pw
	}
}

func overrideHostPort(current, host, port string) string {
	if host == "" && port == "" {
		return current
	}

	curHost, curPort, err := net.SplitHostPort(current)
	if err != nil {
		curHost, curPort = current, ""
	}
	if host == "" {
		host = curHost
	}
	if port == "" {
		port = curPort
	}
	if _, err := strconv.Atoi(port); err != nil {
		return current
	}
	return net.JoinHostPort(host, port)
}
