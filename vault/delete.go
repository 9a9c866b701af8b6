/*
 * Karta
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package vault

import (
	"github.com/kartaio/karta/identity"
	"github.com/kartaio/karta/trash"
)

/*
DeleteNodes soft-deletes every handle via TrashStore, per spec.md 4.5 and
4.6.
*/
func (s *Service) DeleteNodes(handles []identity.NodeHandle) (trash.DeleteResult, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.Trash.DeleteNodes(handles, s.nextOperationID())
}
