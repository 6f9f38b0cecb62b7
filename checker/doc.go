// Package checker audits a Docker-based PHP development stack (Nginx +
// PHP-FPM + MariaDB) from its declarative configuration files.
//
// The checker loads the stack's artifacts (Nginx server config, Docker
// Compose definition, launcher script, and the Nginx image Dockerfile),
// runs a fixed set of rules grouped by topic, and reports severity-graded
// issues pointing at the offending file positions where known.
//
// Rule topics:
//
//   - nginx-static: document root, try_files, listen port, index files
//   - nginx-php: PHP location block and FastCGI proxying directives
//   - nginx-image: Dockerfile base image and config installation
//   - compose-services: required services and their shapes
//   - compose-health: MariaDB healthcheck and dependency conditions
//   - compose-volumes: shared docroot, persistent data, and SQL init mounts
//   - launcher: dual-platform launcher script behavior
//
// Audit a stack directory:
//
//	result, err := checker.CheckWithOptions(
//	    checker.WithStackDir("."),
//	    checker.WithStrictMode(true),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !result.Valid {
//		for _, issue := range result.Errors {
//			fmt.Println(issue.String())
//		}
//	}
package checker
