// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package common

// Protocol constants.
const (
	// FactoryFeeNumerator and FactoryFeeDenominator define the share of every claimed
	// reward that is paid to the factory treasury.
	FactoryFeeNumerator   uint64 = 3
	FactoryFeeDenominator uint64 = 100

	// MaxConfigEpochs bounds the length of a pool's configuration timeline.
	MaxConfigEpochs = 32
)
