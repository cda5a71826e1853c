// Command admin-key generates an admin API key and the argon2id hash to put in
// BRANDCORNER_ADMIN_API_KEY_HASH.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/angelmondragon/brandcorner-backend/pkg/logger"
	"github.com/angelmondragon/brandcorner-backend/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "admin-key"})
	ctx := context.Background()

	length := flag.Int("length", 40, "generated key length")
	key := flag.String("key", "", "hash this key instead of generating one")
	flag.Parse()

	secret := *key
	if secret == "" {
		generated, err := security.GenerateAPIKey(*length)
		if err != nil {
			logg.Error(ctx, "failed to generate api key", err)
			os.Exit(1)
		}
		secret = generated
	}

	hash, err := security.HashSecret(secret, security.DefaultParams)
	if err != nil {
		logg.Error(ctx, "failed to hash api key", err)
		os.Exit(1)
	}

	fmt.Printf("BRANDCORNER_ADMIN_API_KEY=%s\n", secret)
	fmt.Printf("BRANDCORNER_ADMIN_API_KEY_HASH=%s\n", hash)
}
