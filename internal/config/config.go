package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The types reflect how the values are used
// in the application: strings for identifiers and secrets, ints for
// durations, bools for product decisions surfaced as flags.
type Config struct {
    Env          string // application environment (e.g. "dev", "prod")
    Port         string // HTTP port to listen on
    DBUser       string // database username
    DBPass       string // database password (optional)
    DBHost       string // database host address
    DBPort       string // database port number
    DBName       string // database name
    JWTSecret    string // secret used to verify JWTs issued by the suite's identity service
    AccessTTLMin int    // access token time-to-live in minutes (dev-mode token mint)

    // FeeIncludeRequester decides whether the requester joins the
    // present-guest tally before the fee tier lookup.  The legacy screens
    // disagreed on this, so it is a product flag rather than code.
    FeeIncludeRequester bool
    // TermReadingSeconds is how long a requester must stay on the term of
    // responsibility before the acceptance checkbox becomes actionable.
    TermReadingSeconds int
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:                 must("APP_ENV"),  // environment (dev/test/prod)
        Port:                must("APP_PORT"), // port to bind the HTTP server
        DBUser:              must("DB_USER"),  // database user
        DBPass:              os.Getenv("DB_PASS"), // database password (empty allowed)
        DBHost:              must("DB_HOST"),  // database host
        DBPort:              must("DB_PORT"),  // database port
        DBName:              must("DB_NAME"),  // database name
        JWTSecret:           must("JWT_SECRET"), // secret used for verifying JWTs
        AccessTTLMin:        intOr("ACCESS_TOKEN_TTL_MIN", 60),
        FeeIncludeRequester: boolOr("FEE_INCLUDE_REQUESTER", false),
        TermReadingSeconds:  intOr("TERM_READING_SECONDS", 30),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// intOr converts an optional environment variable into an integer,
// falling back to def when unset.  An unparseable value is a fatal
// configuration error.
func intOr(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// boolOr converts an optional environment variable into a bool, falling
// back to def when unset.
func boolOr(key string, def bool) bool {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    b, err := strconv.ParseBool(s)
    if err != nil {
        log.Fatalf("invalid bool for %s: %q", key, s)
    }
    return b
}
