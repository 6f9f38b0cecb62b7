// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/stackcheck/internal/fileutil"
)

// GoodNginxConf is a server config that satisfies every audit rule:
// static serving from /var/www/html on port 80 and PHP handoff to the
// php-fpm service.
const GoodNginxConf = `server {
    listen 80;
    server_name localhost;

    root /var/www/html;
    index index.php index.html;

    location / {
        try_files $uri $uri/ /index.php?$query_string;
    }

    location ~ \.php$ {
        fastcgi_split_path_info ^(.+\.php)(/.+)$;
        fastcgi_pass php:9000;
        fastcgi_index index.php;
        include fastcgi_params;
        fastcgi_param SCRIPT_FILENAME $document_root$fastcgi_script_name;
        fastcgi_param PATH_INFO $fastcgi_path_info;
    }
}
`

// GoodComposeYAML is a compose file that satisfies every audit rule:
// web, php and mariadb services with the shared document root, the
// gated startup ordering and the SQL init mount.
const GoodComposeYAML = `services:
  web:
    build:
      context: .
      dockerfile: Dockerfile
    ports:
      - "8000:80"
    volumes:
      - ./src:/var/www/html
    depends_on:
      - php

  php:
    image: php:8.3-fpm
    volumes:
      - ./src:/var/www/html
    depends_on:
      mariadb:
        condition: service_healthy

  mariadb:
    image: mariadb:11
    environment:
      MARIADB_ROOT_PASSWORD: s3cure-dev-root
      MARIADB_DATABASE: app
    volumes:
      - db_data:/var/lib/mysql
      - ./support/db.sql:/docker-entrypoint-initdb.d/db.sql
    healthcheck:
      test: ["CMD", "mariadb-admin", "ping", "-h", "localhost"]
      interval: 5s
      timeout: 3s
      retries: 10

volumes:
  db_data:
`

// GoodLauncherScript is a polyglot launcher that satisfies every audit
// rule: both platform sections, the compose lifecycle commands, option
// handling, a banner and progress messages.
const GoodLauncherScript = `:; #!/bin/sh
:; # POSIX shell section
@echo off
goto :windows

:; set -e
:; echo "  ____  _____  _    ____ _  __"
:; echo " / ___||_   _|/ \  / ___| |/ /"
:; echo " \___ \  | | / _ \| |   | ' / "
:; echo "  ___) | | |/ ___ \ |___| . \ "
:; echo " |____/  |_/_/   \_\____|_|\_\ "
:; echo "  _______________________________"
:; VERBOSE=0
:; RESET_DB=0
:; for arg in "$@"; do
:;   case "$arg" in
:;     --verbose) VERBOSE=1 ;;
:;     --reset-db) RESET_DB=1 ;;
:;   esac
:; done
:; if [ "$RESET_DB" = "1" ]; then
:;   echo "Destroying database volume..."
:;   docker compose down -v
:; fi
:; echo "Starting stack..."
:; docker compose up -d
:; echo "Running at http://localhost:8000"
:; exit 0

:windows
REM Windows batch section
set VERBOSE=0
set RESET_DB=0
for %%A in (%*) do (
  if "%%A"=="--verbose" set VERBOSE=1
  if "%%A"=="--reset-db" set RESET_DB=1
)
if "%RESET_DB%"=="1" (
  echo Destroying database volume...
  docker compose down -v
)
echo Starting stack...
docker compose up -d
echo Running at http://localhost:8000
`

// GoodDockerfile builds the web image from the alpine nginx base and
// installs the server config.
const GoodDockerfile = `FROM nginx:alpine
COPY default.conf /etc/nginx/conf.d/default.conf
`

// GoodInitSQL is a minimal database bootstrap script.
const GoodInitSQL = `CREATE DATABASE IF NOT EXISTS app;
USE app;
CREATE TABLE IF NOT EXISTS notes (
    id INT AUTO_INCREMENT PRIMARY KEY,
    body TEXT NOT NULL
);
INSERT INTO notes (body) VALUES ('hello');
`

// WriteFile writes content to name inside dir, creating parent
// directories as needed. Returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), fileutil.OwnerReadWrite); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// WriteNginxConf writes an Nginx server config to a temporary file and
// returns its path. The file is cleaned up when the test completes.
func WriteNginxConf(t *testing.T, content string) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), "default.conf", content)
}

// WriteComposeYAML writes a compose file to a temporary file and returns
// its path. The file is cleaned up when the test completes.
func WriteComposeYAML(t *testing.T, content string) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), "docker-compose.yml", content)
}

// WriteLauncher writes a launcher script to a temporary file and returns
// its path. The file is cleaned up when the test completes.
func WriteLauncher(t *testing.T, content string) string {
	t.Helper()
	return WriteFile(t, t.TempDir(), "run.cmd", content)
}

// WriteStackDir creates a complete stack directory containing every
// artifact in its conventional location, all passing the audit rules.
// Returns the directory path. The directory is cleaned up when the test
// completes.
func WriteStackDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	WriteFile(t, dir, "default.conf", GoodNginxConf)
	WriteFile(t, dir, "docker-compose.yml", GoodComposeYAML)
	WriteFile(t, dir, "run.cmd", GoodLauncherScript)
	WriteFile(t, dir, "Dockerfile", GoodDockerfile)
	WriteFile(t, dir, filepath.Join("support", "db.sql"), GoodInitSQL)
	return dir
}
