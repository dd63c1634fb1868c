// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

/*
Package authz gates routes with Casbin RBAC.

Token groups are roles. The embedded policy grants:

	student: catalog read, learning read/write
	teacher: authoring *, teacher_profile write, and everything student has

Authenticated users without groups are checked as DefaultRole (student).
ModelPath and PolicyPath load a replacement model or policy from disk.

Teacher routes compose two guards at the router:

	r.Use(authMW.Require, guard.RequireRole(authz.RoleTeacher), guard.RequireTeacherProfile)

RequireTeacherProfile stores the profile on the context for handlers
(TeacherProfileFromContext). Course ownership is checked by the store.
*/
package authz
