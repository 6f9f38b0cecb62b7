package checker

import (
	"bufio"
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/stackcheck/nginxconf"
)

// checkNginxStatic audits the static-serving side of the server config:
// document root, listen port, catch-all location, index fallback chain.
func (c *Checker) checkNginxStatic(result *Result, stack *Stack) {
	if stack.Nginx == nil {
		return
	}
	conf := stack.Nginx.Config
	file := stack.NginxPath

	server := conf.Find("server")
	if server == nil {
		c.addError(result, TopicNginxStatic, "server",
			"no server block found")
		return
	}

	root := server.Block.Find("root")
	if root == nil {
		c.addError(result, TopicNginxStatic, "server.root",
			"missing root directive",
			withDirective(server, file))
	} else if root.Value() != expectedDocRoot {
		c.addError(result, TopicNginxStatic, "server.root",
			fmt.Sprintf("document root must be %s, got %s", expectedDocRoot, root.Value()),
			withField("root"), withValue(root.Value()), withDirective(root, file))
	}

	c.checkListen(result, server, stack)

	index := server.Block.Find("index")
	if index == nil {
		c.addError(result, TopicNginxStatic, "server.index",
			"missing index directive",
			withDirective(server, file))
	} else {
		for _, want := range []string{"index.php", "index.html"} {
			if !slices.Contains(index.Args, want) {
				c.addError(result, TopicNginxStatic, "server.index",
					fmt.Sprintf("index directive must list %s", want),
					withField("index"), withValue(index.Value()), withDirective(index, file))
			}
		}
	}

	loc := server.Block.Location("/")
	if loc == nil {
		c.addError(result, TopicNginxStatic, "server.location",
			"missing catch-all location / block",
			withDirective(server, file))
		return
	}
	tryFiles := loc.Block.Find("try_files")
	if tryFiles == nil {
		c.addError(result, TopicNginxStatic, "server.location./.try_files",
			"location / must declare try_files",
			withDirective(loc, file))
	} else if !slices.Contains(tryFiles.Args, "$uri") {
		c.addError(result, TopicNginxStatic, "server.location./.try_files",
			"try_files must attempt the literal request path ($uri) first",
			withField("try_files"), withValue(tryFiles.Value()), withDirective(tryFiles, file))
	}
}

// checkListen verifies the listen port, cross-checking the compose port
// mapping in strict mode.
func (c *Checker) checkListen(result *Result, server *nginxconf.Directive, stack *Stack) {
	file := stack.NginxPath
	listen := server.Block.Find("listen")
	if listen == nil {
		c.addError(result, TopicNginxStatic, "server.listen",
			"missing listen directive",
			withDirective(server, file))
		return
	}
	port := listen.Arg(0)
	// "listen 80 default_server;" and "listen [::]:80;" both count
	if i := strings.LastIndex(port, ":"); i >= 0 {
		port = port[i+1:]
	}
	if port != expectedListenPort {
		c.addError(result, TopicNginxStatic, "server.listen",
			fmt.Sprintf("server must listen on port %s, got %s", expectedListenPort, listen.Value()),
			withField("listen"), withValue(listen.Value()), withDirective(listen, file))
	}

	if !c.StrictMode || stack.Compose == nil {
		return
	}
	web := stack.Compose.Project.Service(serviceWeb)
	if web == nil || len(web.Ports) == 0 {
		return
	}
	for _, p := range web.Ports {
		if p.Target == port {
			return
		}
	}
	c.addError(result, TopicNginxStatic, "server.listen",
		fmt.Sprintf("listen port %s is not the container side of any web port mapping", port),
		withField("listen"), withValue(listen.Value()), withDirective(listen, file))
}

// checkNginxPHP audits the PHP handoff: the .php location block and its
// fastcgi wiring to the php-fpm service.
func (c *Checker) checkNginxPHP(result *Result, stack *Stack) {
	if stack.Nginx == nil {
		return
	}
	conf := stack.Nginx.Config
	file := stack.NginxPath

	loc := conf.Location(`~ \.php$`)
	if loc == nil {
		c.addError(result, TopicNginxPHP, "server.location",
			`missing PHP handler location ~ \.php$ block`)
		return
	}
	block := loc.Block

	pass := block.Find("fastcgi_pass")
	if pass == nil {
		c.addError(result, TopicNginxPHP, "server.location.php.fastcgi_pass",
			"PHP location must declare fastcgi_pass",
			withDirective(loc, file))
	} else {
		if pass.Value() != expectedFastCGIPass {
			c.addError(result, TopicNginxPHP, "server.location.php.fastcgi_pass",
				fmt.Sprintf("fastcgi_pass must be %s, got %s", expectedFastCGIPass, pass.Value()),
				withField("fastcgi_pass"), withValue(pass.Value()), withDirective(pass, file))
		}
		if c.StrictMode {
			c.checkFastCGIUpstream(result, stack, pass, file)
		}
	}

	split := block.Find("fastcgi_split_path_info")
	if split == nil {
		c.addError(result, TopicNginxPHP, "server.location.php.fastcgi_split_path_info",
			"PHP location must declare fastcgi_split_path_info",
			withDirective(loc, file))
	} else if split.Value() != `^(.+\.php)(/.+)$` {
		c.addWarning(result, TopicNginxPHP, "server.location.php.fastcgi_split_path_info",
			fmt.Sprintf("unconventional split pattern %s", split.Value()),
			withField("fastcgi_split_path_info"), withValue(split.Value()), withDirective(split, file))
	}

	index := block.Find("fastcgi_index")
	if index == nil || index.Value() != "index.php" {
		c.addError(result, TopicNginxPHP, "server.location.php.fastcgi_index",
			"PHP location must declare fastcgi_index index.php",
			withDirective(loc, file))
	}

	include := block.Param("include", "fastcgi_params")
	if include == nil {
		c.addError(result, TopicNginxPHP, "server.location.php.include",
			"PHP location must include fastcgi_params",
			withDirective(loc, file))
	}

	script := block.Param("fastcgi_param", "SCRIPT_FILENAME")
	if script == nil {
		c.addError(result, TopicNginxPHP, "server.location.php.fastcgi_param",
			"PHP location must set fastcgi_param SCRIPT_FILENAME",
			withDirective(loc, file))
	} else {
		value := strings.Join(script.Args[1:], " ")
		if !strings.Contains(value, "$document_root") || !strings.Contains(value, "$fastcgi_script_name") {
			c.addError(result, TopicNginxPHP, "server.location.php.fastcgi_param",
				fmt.Sprintf("SCRIPT_FILENAME must combine $document_root and $fastcgi_script_name, got %s", value),
				withField("SCRIPT_FILENAME"), withValue(value), withDirective(script, file))
		}
	}

	pathInfo := block.Param("fastcgi_param", "PATH_INFO")
	if pathInfo == nil {
		c.addError(result, TopicNginxPHP, "server.location.php.fastcgi_param",
			"PHP location must set fastcgi_param PATH_INFO",
			withDirective(loc, file))
	} else if pathInfo.Arg(1) != "$fastcgi_path_info" {
		c.addError(result, TopicNginxPHP, "server.location.php.fastcgi_param",
			fmt.Sprintf("PATH_INFO must be $fastcgi_path_info, got %s", pathInfo.Arg(1)),
			withField("PATH_INFO"), withValue(pathInfo.Arg(1)), withDirective(pathInfo, file))
	}
}

// checkFastCGIUpstream verifies that the fastcgi_pass host names a compose
// service running a PHP image. Strict mode only.
func (c *Checker) checkFastCGIUpstream(result *Result, stack *Stack, pass *nginxconf.Directive, file string) {
	if stack.Compose == nil {
		return
	}
	host, _, found := strings.Cut(pass.Value(), ":")
	if !found {
		host = pass.Value()
	}
	svc := stack.Compose.Project.Service(host)
	if svc == nil {
		c.addError(result, TopicNginxPHP, "server.location.php.fastcgi_pass",
			fmt.Sprintf("fastcgi_pass targets %q but no such compose service exists", host),
			withField("fastcgi_pass"), withValue(pass.Value()), withDirective(pass, file))
		return
	}
	if svc.Image != "" && !containsFold(svc.Image, "php") {
		c.addWarning(result, TopicNginxPHP, "server.location.php.fastcgi_pass",
			fmt.Sprintf("fastcgi_pass targets service %q whose image %q does not look like PHP", host, svc.Image),
			withField("fastcgi_pass"), withValue(svc.Image), withDirective(pass, file))
	}
}

// checkNginxImage audits the Dockerfile that builds the web server image:
// an nginx base and the server config copied into conf.d.
func (c *Checker) checkNginxImage(result *Result, stack *Stack) {
	if stack.Dockerfile == "" {
		return
	}
	file := stack.DockerfilePath

	var fromLine, copyLine string
	var fromNum, copyNum int
	scanner := bufio.NewScanner(strings.NewReader(stack.Dockerfile))
	num := 0
	for scanner.Scan() {
		num++
		line := strings.TrimSpace(scanner.Text())
		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "FROM ") && fromLine == "":
			fromLine, fromNum = line, num
		case strings.HasPrefix(upper, "COPY ") && strings.Contains(line, "/etc/nginx/"):
			copyLine, copyNum = line, num
		}
	}

	if fromLine == "" {
		c.addError(result, TopicNginxImage, "dockerfile.from",
			"Dockerfile has no FROM instruction",
			func(i *Issue) { i.File = file })
		return
	}
	fields := strings.Fields(fromLine)
	if len(fields) < 2 {
		c.addError(result, TopicNginxImage, "dockerfile.from",
			"FROM instruction names no base image",
			func(i *Issue) { i.File = file; i.Line = fromNum; i.Column = 1 })
		return
	}
	base := fields[1]
	if !containsFold(base, "nginx") {
		c.addError(result, TopicNginxImage, "dockerfile.from",
			fmt.Sprintf("web image must build from nginx, got %s", base),
			withField("FROM"), withValue(base),
			func(i *Issue) { i.File = file; i.Line = fromNum; i.Column = 1 })
	} else if !strings.Contains(base, ":alpine") {
		c.addWarning(result, TopicNginxImage, "dockerfile.from",
			fmt.Sprintf("prefer the alpine nginx base image, got %s", base),
			withField("FROM"), withValue(base),
			func(i *Issue) { i.File = file; i.Line = fromNum; i.Column = 1 })
	}

	if copyLine == "" {
		c.addError(result, TopicNginxImage, "dockerfile.copy",
			"Dockerfile must COPY the server config into /etc/nginx/",
			func(i *Issue) { i.File = file })
		return
	}
	if !strings.Contains(copyLine, "conf.d") {
		c.addError(result, TopicNginxImage, "dockerfile.copy",
			fmt.Sprintf("server config must be copied under /etc/nginx/conf.d/, got %s", copyLine),
			withField("COPY"), withValue(copyLine),
			func(i *Issue) { i.File = file; i.Line = copyNum; i.Column = 1 })
	}
}
