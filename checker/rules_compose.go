package checker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/erraggy/stackcheck/compose"
)

// weakPasswords are root password values that defeat the point of setting one.
var weakPasswords = []string{"password", "root", "secret", "changeme", "123", "1234", "12345"}

// checkComposeServices audits the service topology: the three expected
// services, the published web port, and the database credentials.
func (c *Checker) checkComposeServices(result *Result, stack *Stack) {
	if stack.Compose == nil {
		return
	}
	proj := stack.Compose.Project
	sm := stack.Compose.SourceMap
	file := stack.ComposePath

	if proj.Version != "" {
		c.addWarning(result, TopicComposeServices, "version",
			"top-level version field is obsolete and ignored by compose",
			withField("version"), withValue(proj.Version),
			withComposeLocation(sm, "version", file))
	}

	for _, name := range []string{serviceWeb, servicePHP, serviceMariaDB} {
		if proj.Service(name) == nil {
			c.addError(result, TopicComposeServices, "services."+name,
				fmt.Sprintf("missing required service %q", name),
				withComposeLocation(sm, "services", file))
		}
	}

	if web := proj.Service(serviceWeb); web != nil {
		if web.Image == "" && web.Build == nil {
			c.addError(result, TopicComposeServices, "services.web",
				"web service needs an image or a build context",
				withComposeLocation(sm, "services.web", file))
		}
		if !web.HasPort(expectedWebPort) {
			c.addError(result, TopicComposeServices, "services.web.ports",
				fmt.Sprintf("web service must publish %s", expectedWebPort),
				withField("ports"),
				withComposeLocation(sm, "services.web.ports", file))
		}
	}

	if php := proj.Service(servicePHP); php != nil {
		if !php.DependsOn.Requires(serviceMariaDB) {
			c.addError(result, TopicComposeServices, "services.php.depends_on",
				"php service must depend on mariadb",
				withField("depends_on"),
				withComposeLocation(sm, "services.php", file))
		}
	}

	if db := proj.Service(serviceMariaDB); db != nil {
		c.checkRootPassword(result, db, sm, file)
	}
}

// checkRootPassword verifies the MariaDB root password is set, non-empty
// and not a throwaway value.
func (c *Checker) checkRootPassword(result *Result, db *compose.Service, sm *compose.SourceMap, file string) {
	path := "services.mariadb.environment." + rootPasswordVar
	password, ok := db.Environment[rootPasswordVar]
	if !ok {
		c.addError(result, TopicComposeServices, path,
			fmt.Sprintf("mariadb service must set %s", rootPasswordVar),
			withField(rootPasswordVar),
			withComposeLocation(sm, "services.mariadb.environment", file))
		return
	}
	if password == "" {
		c.addError(result, TopicComposeServices, path,
			fmt.Sprintf("%s must not be empty", rootPasswordVar),
			withField(rootPasswordVar),
			withComposeLocation(sm, path, file))
		return
	}
	for _, weak := range weakPasswords {
		if strings.EqualFold(password, weak) {
			c.addWarning(result, TopicComposeServices, path,
				fmt.Sprintf("%s is a commonly guessed value", rootPasswordVar),
				withField(rootPasswordVar),
				withComposeLocation(sm, path, file))
			return
		}
	}
}

// checkComposeHealth audits the database healthcheck and the gated startup
// ordering that depends on it.
func (c *Checker) checkComposeHealth(result *Result, stack *Stack) {
	if stack.Compose == nil {
		return
	}
	proj := stack.Compose.Project
	sm := stack.Compose.SourceMap
	file := stack.ComposePath

	db := proj.Service(serviceMariaDB)
	if db != nil {
		c.checkMariaDBHealthcheck(result, db, sm, file)
	}

	php := proj.Service(servicePHP)
	if php == nil || !php.DependsOn.Requires(serviceMariaDB) {
		return
	}
	if php.DependsOn.Short {
		c.addError(result, TopicComposeHealth, "services.php.depends_on",
			"php dependency on mariadb must use the long form with a condition",
			withField("depends_on"),
			withComposeLocation(sm, "services.php.depends_on", file))
		return
	}
	if cond := php.DependsOn.Condition(serviceMariaDB); cond != "service_healthy" {
		c.addError(result, TopicComposeHealth, "services.php.depends_on.mariadb",
			fmt.Sprintf("php must wait for mariadb with condition service_healthy, got %q", cond),
			withField("condition"), withValue(cond),
			withComposeLocation(sm, "services.php.depends_on.mariadb.condition", file))
	}
}

// checkMariaDBHealthcheck requires a complete healthcheck using the
// mariadb-admin ping probe.
func (c *Checker) checkMariaDBHealthcheck(result *Result, db *compose.Service, sm *compose.SourceMap, file string) {
	base := "services.mariadb.healthcheck"
	hc := db.Healthcheck
	if hc == nil || hc.Disable {
		c.addError(result, TopicComposeHealth, base,
			"mariadb service must declare a healthcheck",
			withField("healthcheck"),
			withComposeLocation(sm, "services.mariadb", file))
		return
	}

	test := hc.Test.String()
	if test == "" {
		c.addError(result, TopicComposeHealth, base+".test",
			"healthcheck must declare a test command",
			withField("test"),
			withComposeLocation(sm, base, file))
	} else if !strings.Contains(test, "mariadb-admin") && !strings.Contains(test, "healthcheck.sh") {
		c.addError(result, TopicComposeHealth, base+".test",
			fmt.Sprintf("healthcheck should probe via mariadb-admin ping, got %q", test),
			withField("test"), withValue(test),
			withComposeLocation(sm, base+".test", file))
	}

	if hc.Interval == "" {
		c.addError(result, TopicComposeHealth, base+".interval",
			"healthcheck must set an interval",
			withField("interval"),
			withComposeLocation(sm, base, file))
	}
	if hc.Timeout == "" {
		c.addError(result, TopicComposeHealth, base+".timeout",
			"healthcheck must set a timeout",
			withField("timeout"),
			withComposeLocation(sm, base, file))
	}
	if hc.Retries == nil {
		c.addError(result, TopicComposeHealth, base+".retries",
			"healthcheck must set retries",
			withField("retries"),
			withComposeLocation(sm, base, file))
	}
}

// checkComposeVolumes audits the shared document root, the persistent
// database volume, and the SQL init mount.
func (c *Checker) checkComposeVolumes(result *Result, stack *Stack) {
	if stack.Compose == nil {
		return
	}
	proj := stack.Compose.Project
	sm := stack.Compose.SourceMap
	file := stack.ComposePath

	web := proj.Service(serviceWeb)
	php := proj.Service(servicePHP)
	shared := []struct {
		name string
		svc  *compose.Service
	}{{serviceWeb, web}, {servicePHP, php}}
	for _, entry := range shared {
		name, svc := entry.name, entry.svc
		if svc == nil {
			continue
		}
		if !svc.MountsTarget(expectedDocRoot) {
			c.addError(result, TopicComposeVolumes, "services."+name+".volumes",
				fmt.Sprintf("%s service must mount the document root at %s", name, expectedDocRoot),
				withField("volumes"),
				withComposeLocation(sm, "services."+name, file))
		}
	}
	if c.StrictMode && web != nil && php != nil {
		webMount := web.MountFor(expectedDocRoot)
		phpMount := php.MountFor(expectedDocRoot)
		if webMount != nil && phpMount != nil && webMount.Source != phpMount.Source {
			c.addError(result, TopicComposeVolumes, "services.web.volumes",
				fmt.Sprintf("web and php must share one document root source, got %q and %q",
					webMount.Source, phpMount.Source),
				withField("volumes"),
				withComposeLocation(sm, "services.web.volumes", file))
		}
	}

	if !proj.HasVolume(expectedDataVolume) {
		c.addError(result, TopicComposeVolumes, "volumes."+expectedDataVolume,
			fmt.Sprintf("top-level named volume %q must be declared", expectedDataVolume),
			withComposeLocation(sm, "volumes", file))
	}

	db := proj.Service(serviceMariaDB)
	if db == nil {
		return
	}

	data := db.MountFor(expectedDataTarget)
	if data == nil {
		c.addError(result, TopicComposeVolumes, "services.mariadb.volumes",
			fmt.Sprintf("mariadb service must persist %s", expectedDataTarget),
			withField("volumes"),
			withComposeLocation(sm, "services.mariadb", file))
	} else if data.Source != expectedDataVolume {
		c.addError(result, TopicComposeVolumes, "services.mariadb.volumes",
			fmt.Sprintf("database data must live in the %q named volume, got %q",
				expectedDataVolume, data.Source),
			withField("volumes"), withValue(data.Raw),
			withComposeLocation(sm, "services.mariadb.volumes", file))
	}

	init := db.MountFor(expectedInitTarget)
	if init == nil {
		c.addError(result, TopicComposeVolumes, "services.mariadb.volumes",
			fmt.Sprintf("mariadb service must mount the SQL init script at %s", expectedInitTarget),
			withField("volumes"),
			withComposeLocation(sm, "services.mariadb", file))
	} else if normalizeMountSource(init.Source) != expectedInitSource {
		c.addError(result, TopicComposeVolumes, "services.mariadb.volumes",
			fmt.Sprintf("SQL init script must come from ./%s, got %q", expectedInitSource, init.Source),
			withField("volumes"), withValue(init.Raw),
			withComposeLocation(sm, "services.mariadb.volumes", file))
	}

	if stack.Dir == "" {
		return
	}
	initPath := filepath.Join(stack.Dir, filepath.FromSlash(expectedInitSource))
	if info, err := os.Stat(initPath); err == nil && !info.Mode().IsRegular() {
		c.addError(result, TopicComposeVolumes, "services.mariadb.volumes",
			fmt.Sprintf("%s must be a regular file", expectedInitSource),
			withField("volumes"), withValue(initPath),
			withComposeLocation(sm, "services.mariadb.volumes", file))
	}
}

// normalizeMountSource strips the explicit relative prefix so "./support/db.sql"
// and "support/db.sql" compare equal.
func normalizeMountSource(source string) string {
	return strings.TrimPrefix(source, "./")
}
