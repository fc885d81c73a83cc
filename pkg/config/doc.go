// Package config loads application configuration from environment variables
// into annotated Go structs.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// default .env file is loaded once per process (missing files are fine), and
// env.Parse fills any struct using `env` field tags.
//
//	type GatewayConfig struct {
//		Key    string `env:"RAZORPAY_KEY,required"`
//		Secret string `env:"RAZORPAY_SECRET,required"`
//	}
//
//	var cfg GatewayConfig
//	config.MustLoad(&cfg)
//
// Config structs live with the packages that use them; this package only
// provides the loading machinery.
package config
