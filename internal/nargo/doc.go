// Package nargo is the compilation backend that shells out to an installed
// nargo binary and harvests the JSON artifacts it leaves in target/.
//
// An installed version that differs from the expected one is reported as a
// warning and never stops the build.
package nargo
