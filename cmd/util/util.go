package util

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/dDoc/lib/hello"
	"github.com/ValentinKolb/dDoc/lib/store"
	"github.com/ValentinKolb/dDoc/lib/store/fstore"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		if lineWidth > 0 && lineWidth+1+len(word) > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += len(word)
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// envAliases are environment variables read without the DDOC_ prefix
var envAliases = map[string]string{
	"firebase-project-id":   "FIREBASE_PROJECT_ID",
	"firebase-private-key":  "FIREBASE_PRIVATE_KEY",
	"firebase-client-email": "FIREBASE_CLIENT_EMAIL",
	"port":                  "PORT",
}

// InitConfig loads the env files and initializes viper
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("ddoc")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// the prefixed name wins over the plain one
	for key, env := range envAliases {
		prefixed := "DDOC_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
		_ = viper.BindEnv(key, prefixed, env)
	}
}

// SetupStoreFlags adds the flags that select and configure the document store
func SetupStoreFlags(cmd *cobra.Command) {
	key := "firebase-project-id"
	cmd.PersistentFlags().String(key, "", WrapString("Firebase project id (env FIREBASE_PROJECT_ID)"))

	key = "firebase-private-key"
	cmd.PersistentFlags().String(key, "", WrapString("Private key of the Firebase service account in PEM format, '\\n' escapes are allowed (env FIREBASE_PRIVATE_KEY)"))

	key = "firebase-client-email"
	cmd.PersistentFlags().String(key, "", WrapString("Client email of the Firebase service account (env FIREBASE_CLIENT_EMAIL)"))

	key = "seed-file"
	cmd.PersistentFlags().String(key, "", WrapString("YAML file with the initial documents of the in-memory store (used when Firestore is not configured)"))
}

// GetCredentials reads the Firestore credentials from viper
func GetCredentials() fstore.Credentials {
	return fstore.Credentials{
		ProjectID:   viper.GetString("firebase-project-id"),
		PrivateKey:  viper.GetString("firebase-private-key"),
		ClientEmail: viper.GetString("firebase-client-email"),
	}
}

// LoadSeed returns the dataset of the in-memory store: the given file or the
// built-in hello dataset if path is empty
func LoadSeed(path string) (store.Dataset, error) {
	if path == "" {
		return hello.DefaultDataset(), nil
	}
	ds, err := store.LoadDatasetFile(path)
	if err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}
	return ds, nil
}

// ParseFields parses field=value arguments into document fields.
// The fields named in timestampFields are set to the server timestamp.
func ParseFields(args []string, timestampFields []string) (store.Fields, error) {
	fields := store.Fields{}
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field %q (expected name=value)", arg)
		}
		fields[name] = value
	}
	for _, name := range timestampFields {
		if name == "" {
			return nil, fmt.Errorf("empty timestamp field name")
		}
		fields[name] = store.ServerTimestamp
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields given")
	}
	return fields, nil
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
