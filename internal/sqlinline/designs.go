package sqlinline

const QCreateDesignsTable = `--sql 5c669726-2a92-4c1b-8642-f29c5b1fc347
create table if not exists uniform_designs (
  id uuid primary key,
  user_id text not null default '',
  keyword text not null,
  style text not null,
  sport text not null,
  view text not null,
  player_name text not null default '',
  player_number text not null default '',
  prompt text not null,
  model_ref text not null,
  storage_key text not null unique,
  image_url text not null,
  country text not null default '',
  width int not null default 0,
  height int not null default 0,
  created_at timestamptz not null default now()
);
create index if not exists uniform_designs_user_created_idx
  on uniform_designs (user_id, created_at desc);
`

const QInsertDesign = `--sql 0e26de0c-1071-4e2a-9a97-4c50c61825c1
insert into uniform_designs(
  id,
  user_id,
  keyword,
  style,
  sport,
  view,
  player_name,
  player_number,
  prompt,
  model_ref,
  storage_key,
  image_url,
  country,
  width,
  height,
  created_at
) values (
  $1::uuid,
  $2::text,
  $3::text,
  $4::text,
  $5::text,
  $6::text,
  $7::text,
  $8::text,
  $9::text,
  $10::text,
  $11::text,
  $12::text,
  $13::text,
  $14::int,
  $15::int,
  now()
) returning created_at;
`

const QListDesignsByUser = `--sql e7196fe4-75c3-4236-b181-73d4316e5c8d
select
  id::text,
  user_id,
  keyword,
  style,
  sport,
  view,
  player_name,
  player_number,
  prompt,
  model_ref,
  storage_key,
  image_url,
  country,
  width,
  height,
  created_at
from uniform_designs
where user_id = $1::text
order by created_at desc
limit $2::int;
`
