package checker

import "slices"

// Rule topics. Each topic groups the rules for one aspect of the stack and
// can be selected individually via WithTopics or the CLI --topics flag.
const (
	// TopicNginxStatic covers static file serving: document root,
	// try_files, listen port, and index files.
	TopicNginxStatic = "nginx-static"
	// TopicNginxPHP covers FastCGI proxying to the PHP-FPM service.
	TopicNginxPHP = "nginx-php"
	// TopicNginxImage covers the Nginx image Dockerfile.
	TopicNginxImage = "nginx-image"
	// TopicComposeServices covers required services and their shapes.
	TopicComposeServices = "compose-services"
	// TopicComposeHealth covers the MariaDB healthcheck and dependency
	// conditions.
	TopicComposeHealth = "compose-health"
	// TopicComposeVolumes covers shared docroot, persistent data, and SQL
	// init mounts.
	TopicComposeVolumes = "compose-volumes"
	// TopicLauncher covers the dual-platform launcher script.
	TopicLauncher = "launcher"
)

// AllTopics returns every rule topic in report order.
func AllTopics() []string {
	return []string{
		TopicNginxStatic,
		TopicNginxPHP,
		TopicNginxImage,
		TopicComposeServices,
		TopicComposeHealth,
		TopicComposeVolumes,
		TopicLauncher,
	}
}

// IsValidTopic returns true if name is a known rule topic.
func IsValidTopic(name string) bool {
	return slices.Contains(AllTopics(), name)
}
