package checker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/stackcheck/internal/testutil"
)

// checkNginx audits a single config file against the nginx topics.
func checkNginx(t *testing.T, conf string, topics ...string) *Result {
	t.Helper()
	path := testutil.WriteNginxConf(t, conf)
	result, err := CheckWithOptions(WithNginxPath(path), WithTopics(topics...))
	require.NoError(t, err)
	return result
}

func TestNginxStaticWrongRoot(t *testing.T) {
	conf := strings.Replace(testutil.GoodNginxConf, "root /var/www/html;", "root /usr/share/nginx/html;", 1)
	result := checkNginx(t, conf, TopicNginxStatic)

	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "server.root", "/var/www/html"))
}

func TestNginxStaticWrongListenPort(t *testing.T) {
	conf := strings.Replace(testutil.GoodNginxConf, "listen 80;", "listen 8080;", 1)
	result := checkNginx(t, conf, TopicNginxStatic)

	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "server.listen", "port 80"))
}

func TestNginxStaticIPv6Listen(t *testing.T) {
	conf := strings.Replace(testutil.GoodNginxConf, "listen 80;", "listen [::]:80;", 1)
	result := checkNginx(t, conf, TopicNginxStatic)
	assert.True(t, result.Valid, "address-qualified listen on port 80 should pass")
}

func TestNginxStaticMissingIndexEntry(t *testing.T) {
	conf := strings.Replace(testutil.GoodNginxConf, "index index.php index.html;", "index index.html;", 1)
	result := checkNginx(t, conf, TopicNginxStatic)

	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "server.index", "index.php"))
}

func TestNginxStaticMissingTryFiles(t *testing.T) {
	conf := strings.Replace(testutil.GoodNginxConf,
		"try_files $uri $uri/ /index.php?$query_string;", "autoindex on;", 1)
	result := checkNginx(t, conf, TopicNginxStatic)

	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "server.location./.try_files", "try_files"))
}

func TestNginxStaticTryFilesWithoutURI(t *testing.T) {
	conf := strings.Replace(testutil.GoodNginxConf,
		"try_files $uri $uri/ /index.php?$query_string;",
		"try_files /index.php?$query_string =404;", 1)
	result := checkNginx(t, conf, TopicNginxStatic)

	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "server.location./.try_files", "$uri"))
}

func TestNginxStaticNoServerBlock(t *testing.T) {
	result := checkNginx(t, "worker_processes auto;\n", TopicNginxStatic)

	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "server", "no server block"))
}

func TestNginxPHPMissingLocation(t *testing.T) {
	conf := `server {
    listen 80;
    root /var/www/html;
    index index.php index.html;
    location / {
        try_files $uri $uri/ =404;
    }
}
`
	result := checkNginx(t, conf, TopicNginxPHP)

	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "server.location", `\.php$`))
}

func TestNginxPHPWrongFastCGIPass(t *testing.T) {
	conf := strings.Replace(testutil.GoodNginxConf, "fastcgi_pass php:9000;", "fastcgi_pass 127.0.0.1:9000;", 1)
	result := checkNginx(t, conf, TopicNginxPHP)

	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "server.location.php.fastcgi_pass", "php:9000"))
}

func TestNginxPHPMissingParams(t *testing.T) {
	conf := strings.NewReplacer(
		"fastcgi_param SCRIPT_FILENAME $document_root$fastcgi_script_name;\n", "",
		"fastcgi_param PATH_INFO $fastcgi_path_info;\n", "",
		"include fastcgi_params;\n", "",
	).Replace(testutil.GoodNginxConf)
	result := checkNginx(t, conf, TopicNginxPHP)

	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "server.location.php.fastcgi_param", "SCRIPT_FILENAME"))
	assert.True(t, hasIssue(result.Errors, "server.location.php.fastcgi_param", "PATH_INFO"))
	assert.True(t, hasIssue(result.Errors, "server.location.php.include", "fastcgi_params"))
}

func TestNginxPHPBadScriptFilename(t *testing.T) {
	conf := strings.Replace(testutil.GoodNginxConf,
		"fastcgi_param SCRIPT_FILENAME $document_root$fastcgi_script_name;",
		"fastcgi_param SCRIPT_FILENAME /var/www/html$fastcgi_script_name;", 1)
	result := checkNginx(t, conf, TopicNginxPHP)

	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "server.location.php.fastcgi_param", "$document_root"))
}

func TestNginxPHPStrictUpstreamChecks(t *testing.T) {
	dir := testutil.WriteStackDir(t)
	conf := strings.Replace(testutil.GoodNginxConf, "fastcgi_pass php:9000;", "fastcgi_pass app:9000;", 1)
	testutil.WriteFile(t, dir, "default.conf", conf)

	result := checkDir(t, dir, WithStrictMode(true), WithTopics(TopicNginxPHP))
	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "server.location.php.fastcgi_pass", "no such compose service"))
}

func TestNginxStaticStrictListenMatchesWebPort(t *testing.T) {
	dir := testutil.WriteStackDir(t)
	yaml := strings.Replace(testutil.GoodComposeYAML, `      - "8000:80"`, `      - "8000:8080"`, 1)
	testutil.WriteFile(t, dir, "docker-compose.yml", yaml)

	result := checkDir(t, dir, WithStrictMode(true), WithTopics(TopicNginxStatic))
	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "server.listen", "container side"))

	// relaxed mode only checks the listen port itself
	relaxed := checkDir(t, dir, WithTopics(TopicNginxStatic))
	assert.True(t, relaxed.Valid)
}

func TestNginxImageWrongBase(t *testing.T) {
	dir := testutil.WriteStackDir(t)
	testutil.WriteFile(t, dir, "Dockerfile", "FROM httpd:2.4\nCOPY default.conf /etc/nginx/conf.d/default.conf\n")

	result := checkDir(t, dir, WithTopics(TopicNginxImage))
	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "dockerfile.from", "nginx"))
}

func TestNginxImageNonAlpineWarns(t *testing.T) {
	dir := testutil.WriteStackDir(t)
	testutil.WriteFile(t, dir, "Dockerfile", "FROM nginx:1.27\nCOPY default.conf /etc/nginx/conf.d/default.conf\n")

	result := checkDir(t, dir, WithTopics(TopicNginxImage))
	assert.True(t, result.Valid)
	assert.True(t, hasIssue(result.Warnings, "dockerfile.from", "alpine"))
}

func TestNginxImageMissingCopy(t *testing.T) {
	dir := testutil.WriteStackDir(t)
	testutil.WriteFile(t, dir, "Dockerfile", "FROM nginx:alpine\n")

	result := checkDir(t, dir, WithTopics(TopicNginxImage))
	assert.False(t, result.Valid)
	assert.True(t, hasIssue(result.Errors, "dockerfile.copy", "/etc/nginx/"))
}
