package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-m string   gRPC health bind address (e.g., ":50051")
//	-d string   credential store DSN (postgres:// or mongodb://)
//	-n string   MongoDB database name
//	-s string   access token HMAC secret
//	-S string   refresh token HMAC secret
//	-t int      access token TTL, minutes
//	-r int      refresh token TTL, minutes
//	-k bool     Secure attribute on session cookies
//	-o string   allowed CORS origin
//	-R string   Redis address for the login throttle
//	-l int      failed logins allowed per window
//	-w int      login throttle window, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-P string   public base URL media links are built from
//
// Arguments not listed above are ignored, so the JSON -c flag and any
// other component's flags can share the command line. Duration flags are
// integers in minutes. -k takes its value in the -k=false form.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args,
		"a", "m", "d", "n", "s", "S", "t", "r", "k", "o", "R", "l", "w", "u", "p", "b", "g", "e", "P")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVar(&config.EndpointAddrGRPC, "m", config.EndpointAddrGRPC, "address and port to run gRPC health server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.MongoDatabase, "n", config.MongoDatabase, "MongoDB database name")
	fs.StringVar(&config.AccessTokenSecret, "s", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "S", config.RefreshTokenSecret, "refresh token secret")

	accessTTL := fs.Int("t", int(config.AccessTokenTTL.Minutes()), "access token TTL (in minutes)")
	refreshTTL := fs.Int("r", int(config.RefreshTokenTTL.Minutes()), "refresh token TTL (in minutes)")

	fs.BoolVar(&config.CookieSecure, "k", config.CookieSecure, "secure session cookies")
	fs.StringVar(&config.CORSOrigin, "o", config.CORSOrigin, "allowed CORS origin")
	fs.StringVar(&config.RedisAddr, "R", config.RedisAddr, "redis address for login throttling")
	fs.IntVar(&config.MaxLoginAttempts, "l", config.MaxLoginAttempts, "failed logins allowed per window")

	loginWindow := fs.Int("w", int(config.LoginWindow.Minutes()), "login throttle window (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicBaseURL, "P", config.S3PublicBaseURL, "public base URL for media links")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Minute flags only override when given, so sub-minute values from JSON survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenTTL = time.Duration(*accessTTL) * time.Minute
		case "r":
			config.RefreshTokenTTL = time.Duration(*refreshTTL) * time.Minute
		case "w":
			config.LoginWindow = time.Duration(*loginWindow) * time.Minute
		}
	})
}
