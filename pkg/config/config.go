package config

import "fmt"

// ChainId identifies an EVM chain a relay instance can be pointed at.
type ChainId uint

const (
	ChainIdEthereumMainnet ChainId = 1
	ChainIdEthereumSepolia ChainId = 11155111
	ChainIdEthereumAnvil   ChainId = 31337
)

// DeploymentAddresses carries the well-known LithiumLink deployment for
// a chain this relay ships with. cmd/lithium does not consult it: its
// --link flag takes a raw address.
type DeploymentAddresses struct {
	LithiumLink string
}

var (
	anvilDeployment = &DeploymentAddresses{
		LithiumLink: "0x5FbDB2315678afecb367f032d93F642f64180aa3",
	}

	Deployments = map[ChainId]*DeploymentAddresses{
		ChainIdEthereumSepolia: {
			LithiumLink: "0x8A791620dd6260079BF849Dc5567aDC3F2FdC318",
		},
		ChainIdEthereumAnvil: anvilDeployment,
	}
)

// GetDeploymentForChainId returns the well-known LithiumLink address for
// chainId, or an error if this relay carries no deployment metadata for it.
func GetDeploymentForChainId(chainId ChainId) (*DeploymentAddresses, error) {
	d, ok := Deployments[chainId]
	if !ok {
		return nil, fmt.Errorf("unsupported chain ID: %d", chainId)
	}
	return d, nil
}

// Environment variable names read by cmd/lithium and cmd/proofserver,
// each overridable by the CLI flag of the same purpose.
const (
	EnvLithiumRPCFrom    = "LITHIUM_RPC_FROM"
	EnvLithiumRPCTo      = "LITHIUM_RPC_TO"
	EnvLithiumToAccount  = "LITHIUM_TO_ACCOUNT"
	EnvLithiumLink       = "LITHIUM_LINK"
	EnvLithiumBatchSize  = "LITHIUM_BATCH_SIZE"
	EnvLithiumPidFile    = "LITHIUM_PID_FILE"
	EnvLithiumPrivateKey = "LITHIUM_PRIVATE_KEY"
	EnvLithiumKMSKeyID   = "LITHIUM_KMS_KEY_ID"
	EnvLithiumJWKSURL    = "LITHIUM_PROOF_JWKS_URL"
	EnvLithiumCacheDir   = "LITHIUM_PROOF_CACHE_DIR"
	EnvLithiumRedisAddr  = "LITHIUM_PROOF_REDIS_ADDR"
)

// Relay defaults. DefaultBatchSize is the default of cmd/lithium's
// --batch-size flag; cmd/lithium has no poll-interval flag and does not
// read DefaultPollInterval.
const (
	DefaultBatchSize    uint32 = 32
	DefaultPollInterval        = "1s"
)
