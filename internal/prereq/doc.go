// Package prereq resolves the prerequisite neighbourhood of a course.
//
// Every function here is pure over an immutable catalog snapshot: an Index is
// derived from one Catalog, and the resolvers walk it without mutating
// anything. Identity is always the normalized course id (see
// normalize.CourseID); display ids are only kept for reporting.
package prereq
