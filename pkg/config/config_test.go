package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetDeploymentForChainId(t *testing.T) {
	d, err := GetDeploymentForChainId(ChainIdEthereumSepolia)
	require.NoError(t, err)
	require.NotEmpty(t, d.LithiumLink)
}

func TestGetDeploymentForChainIdUnknown(t *testing.T) {
	_, err := GetDeploymentForChainId(ChainId(999999))
	require.Error(t, err)
}
