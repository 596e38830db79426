// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/depscope/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func findClass(t *testing.T, classes []types.ClassInfo, name string) types.ClassInfo {
	t.Helper()
	for _, c := range classes {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("class %q not found", name)
	return types.ClassInfo{}
}

func TestAnalyzeFile_ClassDeclaration(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "car.ts", `
import { Engine } from './engine';

export class Car extends Vehicle implements Drivable, Insurable {
  private engine: Engine = new Engine();
  protected wheels: Wheel[] = [];
  #vin: string;
  static count: number = 0;
  readonly year?: number;

  drive(distance: number): boolean { return true; }
  private stop(): void {}
}
`)

	ext := NewExtractor()
	result, err := ext.AnalyzeFile(context.Background(), path, 1)
	require.NoError(t, err)

	require.Len(t, result.Classes, 1)
	car := result.Classes[0]
	assert.Equal(t, "Car", car.Name)
	assert.Equal(t, types.Class, car.Kind)
	assert.Equal(t, "Vehicle", car.Extends)
	assert.Equal(t, []string{"Drivable", "Insurable"}, car.Implements)
	assert.False(t, car.IsAbstract)
	assert.Equal(t, 1, result.Depth)

	props := map[string]types.PropertyInfo{}
	for _, p := range car.Properties {
		props[p.Name] = p
	}

	assert.Equal(t, types.Private, props["engine"].Visibility)
	assert.Equal(t, "Engine", props["engine"].Type)
	assert.True(t, props["engine"].OwnsValue, "new expression initializer")

	assert.Equal(t, types.Protected, props["wheels"].Visibility)
	assert.Equal(t, "Wheel[]", props["wheels"].Type)
	assert.False(t, props["wheels"].OwnsValue)

	assert.Equal(t, types.Private, props["vin"].Visibility, "# syntax is private")
	assert.True(t, props["count"].IsStatic)
	assert.True(t, props["year"].IsReadonly)
	assert.True(t, props["year"].IsOptional)

	require.Len(t, car.Methods, 2)
	drive := car.Methods[0]
	assert.Equal(t, "drive", drive.Name)
	assert.Equal(t, types.Public, drive.Visibility)
	assert.Equal(t, "boolean", drive.ReturnType)
	require.Len(t, drive.Params, 1)
	assert.Equal(t, "distance", drive.Params[0].Name)
	assert.Equal(t, "number", drive.Params[0].Type)
	assert.Equal(t, types.Private, car.Methods[1].Visibility)
}

func TestAnalyzeFile_AbstractClass(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "shape.ts", `
export abstract class Shape {
  abstract area(): number;
}
`)

	ext := NewExtractor()
	result, err := ext.AnalyzeFile(context.Background(), path, 1)
	require.NoError(t, err)

	shape := findClass(t, result.Classes, "Shape")
	assert.True(t, shape.IsAbstract)
	require.Len(t, shape.Methods, 1)
	assert.True(t, shape.Methods[0].IsAbstract)
}

func TestAnalyzeFile_ConstructorStores(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "service.ts", `
class OrderService {
  private repo: OrderRepository;

  constructor(private logger: Logger, repo: OrderRepository, temp: Clock) {
    this.repo = repo;
    const unused = temp.now();
  }
}
`)

	ext := NewExtractor()
	result, err := ext.AnalyzeFile(context.Background(), path, 1)
	require.NoError(t, err)

	svc := findClass(t, result.Classes, "OrderService")
	require.Len(t, svc.CtorParams, 3)
	assert.True(t, svc.CtorParams[0].IsProperty, "parameter property")
	assert.Equal(t, types.Private, svc.CtorParams[0].Visibility)
	assert.Equal(t, "Logger", svc.CtorParams[0].Type)

	assert.ElementsMatch(t, []string{"logger", "repo"}, svc.CtorStores,
		"parameter property and this.repo = repo are stored; temp is not")

	// The parameter property materializes as a field.
	props := map[string]types.PropertyInfo{}
	for _, p := range svc.Properties {
		props[p.Name] = p
	}
	assert.Equal(t, "Logger", props["logger"].Type)
}

func TestAnalyzeFile_Interface(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "drivable.ts", `
export interface Drivable extends Movable, Steerable {
  readonly speed: number;
  route?: Route;
  drive(distance: number): boolean;
}
`)

	ext := NewExtractor()
	result, err := ext.AnalyzeFile(context.Background(), path, 1)
	require.NoError(t, err)

	iface := findClass(t, result.Classes, "Drivable")
	assert.Equal(t, types.Interface, iface.Kind)
	assert.Equal(t, "Movable", iface.Extends)
	assert.Equal(t, []string{"Steerable"}, iface.Implements)

	require.Len(t, iface.Properties, 2)
	assert.True(t, iface.Properties[0].IsReadonly)
	assert.Equal(t, "number", iface.Properties[0].Type)
	assert.True(t, iface.Properties[1].IsOptional)
	require.Len(t, iface.Methods, 1)
	assert.Equal(t, "drive", iface.Methods[0].Name)
}

func TestAnalyzeFile_ImportsAndExports(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.ts", `
import { Engine, Piston } from './engine';
import Wheel from './wheel';
import * as utils from '../utils';
import 'reflect-metadata';
const legacy = require('./legacy');

export { Engine };
export default class App {}
export const VERSION = '1.0';
export function boot(): void {}
`)

	ext := NewExtractor()
	result, err := ext.AnalyzeFile(context.Background(), path, 1)
	require.NoError(t, err)

	sources := map[string][]string{}
	for _, imp := range result.Imports {
		sources[imp.Source] = imp.Symbols
	}
	assert.ElementsMatch(t, []string{"Engine", "Piston"}, sources["./engine"])
	assert.Equal(t, []string{"Wheel"}, sources["./wheel"])
	assert.Equal(t, []string{"utils"}, sources["../utils"])
	assert.Contains(t, sources, "reflect-metadata")
	assert.Equal(t, []string{"legacy"}, sources["./legacy"])

	assert.Equal(t, 2, result.Imports[0].Line)

	names := map[string]bool{}
	var defaultName string
	for _, e := range result.Exports {
		names[e.Name] = true
		if e.IsDefault {
			defaultName = e.Name
		}
	}
	assert.True(t, names["Engine"])
	assert.True(t, names["VERSION"])
	assert.True(t, names["boot"])
	assert.Equal(t, "App", defaultName)
}

func TestAnalyzeFile_ReExportCountsAsImport(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "barrel.ts", `export { Engine } from './engine';`)

	ext := NewExtractor()
	result, err := ext.AnalyzeFile(context.Background(), path, 1)
	require.NoError(t, err)

	require.Len(t, result.Imports, 1)
	assert.Equal(t, "./engine", result.Imports[0].Source)
	assert.Equal(t, []string{"Engine"}, result.Imports[0].Symbols)
}

func TestAnalyzeFile_CacheHitRewritesDepthOnly(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ts", `export class A {}`)

	ext := NewExtractor()

	first, err := ext.AnalyzeFile(context.Background(), path, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Depth)
	assert.Equal(t, 1, ext.Stats().ParseCount)

	second, err := ext.AnalyzeFile(context.Background(), path, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, second.Depth)
	assert.Equal(t, first.Classes, second.Classes)
	assert.Equal(t, 1, ext.Stats().ParseCount, "unchanged file is parsed once")
	assert.Equal(t, 1, ext.Stats().CacheHits)
}

func TestAnalyzeFile_MtimeChangeForcesReparse(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ts", `export class A {}`)

	ext := NewExtractor()
	_, err := ext.AnalyzeFile(context.Background(), path, 1)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`export class B {}`), 0o644))
	require.NoError(t, os.Chtimes(path, time.Now().Add(time.Second), time.Now().Add(time.Second)))

	result, err := ext.AnalyzeFile(context.Background(), path, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, ext.Stats().ParseCount)
	assert.Equal(t, "B", result.Classes[0].Name)
}

func TestAnalyzeFile_UnsupportedFileRecordedEmpty(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "not source code")

	ext := NewExtractor()
	result, err := ext.AnalyzeFile(context.Background(), path, 2)
	require.NoError(t, err, "unparseable files do not fail the call")
	assert.Empty(t, result.Classes)
	assert.Empty(t, result.Imports)
	assert.Equal(t, 2, result.Depth)
}

func TestAnalyzeFile_MissingFile(t *testing.T) {
	ext := NewExtractor()
	_, err := ext.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "ghost.ts"), 1)
	assert.Error(t, err)
}

func TestAnalyzeFile_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ts", `export class A {}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ext := NewExtractor()
	_, err := ext.AnalyzeFile(ctx, path, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClear_ResetsCacheAndStats(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.ts", `export class A {}`)

	ext := NewExtractor()
	_, err := ext.AnalyzeFile(context.Background(), path, 1)
	require.NoError(t, err)

	ext.Clear()
	assert.Equal(t, Stats{}, ext.Stats())

	_, err = ext.AnalyzeFile(context.Background(), path, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, ext.Stats().ParseCount, "cleared cache re-parses")
}
