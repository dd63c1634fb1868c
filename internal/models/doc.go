// Campus - Course Catalog, Recommendations and Study Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/campus

/*
Package models defines the data structures shared by the Campus store,
recommendation engine and HTTP API.

Model Categories:

 1. Identity: User with an optional TeacherProfile.
 2. Catalog: Course, Module, Lesson, Resource, Certificate.
 3. Learning: Enrollment, LessonCompletion, Progress.
 4. Engagement: WishlistEntry, Review, and the per-course counters in
    CourseSummary.
 5. API: APIResponse envelope and the validated request inputs.
*/
package models
