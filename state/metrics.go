// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/stakefactory/stakefactory/metrics"

var (
	metricRecordCounter = metrics.LazyLoadCounterVec("state_record_count", []string{"type"})
	metricCommitCounter = metrics.LazyLoadCounter("state_commit_count")
)
